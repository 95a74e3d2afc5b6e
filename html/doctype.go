// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// Modifications:
// Copyright 2024 Daniel Potapov
//  - Identifiers come from the tokenizer instead of being re-parsed.
//  - Limited quirks mode is detected.

package html

import (
	"strings"

	"github.com/dpotapov/go-htmlast/dom"
)

// doctypeNode creates the doctype node for a DoctypeToken and determines
// the document mode it implies. Section 12.2.6.4.1.
func (p *parser) doctypeNode() (dom.NodeID, dom.QuirksMode) {
	tok := &p.tok
	n := p.doc.Create(dom.Node{
		Kind:     dom.DoctypeNode,
		Data:     tok.Data,
		PublicID: tok.PublicID,
		SystemID: tok.SystemID,
		Pos:      tok.Pos,
	})
	return n, doctypeQuirksMode(tok)
}

// conformingDoctype reports whether the doctype is <!DOCTYPE html>, possibly
// with the about:legacy-compat system identifier.
func conformingDoctype(tok *Token) bool {
	return tok.Data == "html" && !tok.HasPublicID &&
		(!tok.HasSystemID || tok.SystemID == "about:legacy-compat")
}

func doctypeQuirksMode(tok *Token) dom.QuirksMode {
	if tok.ForceQuirks || tok.Data != "html" {
		return dom.Quirks
	}
	public := strings.ToLower(tok.PublicID)
	system := strings.ToLower(tok.SystemID)
	if tok.HasPublicID {
		for _, q := range quirkyExactIDs {
			if public == q {
				return dom.Quirks
			}
		}
		for _, q := range quirkyIDPrefixes {
			if strings.HasPrefix(public, q) {
				return dom.Quirks
			}
		}
	}
	if system == "http://www.ibm.com/data/dtd/v11/ibmxhtml1-transitional.dtd" {
		return dom.Quirks
	}
	html401 := strings.HasPrefix(public, "-//w3c//dtd html 4.01 frameset//") ||
		strings.HasPrefix(public, "-//w3c//dtd html 4.01 transitional//")
	if html401 && !tok.HasSystemID {
		return dom.Quirks
	}
	if html401 ||
		strings.HasPrefix(public, "-//w3c//dtd xhtml 1.0 frameset//") ||
		strings.HasPrefix(public, "-//w3c//dtd xhtml 1.0 transitional//") {
		return dom.LimitedQuirks
	}
	return dom.NoQuirks
}

var quirkyExactIDs = []string{
	"-//w3o//dtd w3 html strict 3.0//en//",
	"-/w3c/dtd html 4.0 transitional/en",
	"html",
}

var quirkyIDPrefixes = []string{
	"+//silmaril//dtd html pro v0r11 19970101//",
	"-//advasoft ltd//dtd html 3.0 aswedit + extensions//",
	"-//as//dtd html 3.0 aswedit + extensions//",
	"-//ietf//dtd html 2.0 level 1//",
	"-//ietf//dtd html 2.0 level 2//",
	"-//ietf//dtd html 2.0 strict level 1//",
	"-//ietf//dtd html 2.0 strict level 2//",
	"-//ietf//dtd html 2.0 strict//",
	"-//ietf//dtd html 2.0//",
	"-//ietf//dtd html 2.1e//",
	"-//ietf//dtd html 3.0//",
	"-//ietf//dtd html 3.2 final//",
	"-//ietf//dtd html 3.2//",
	"-//ietf//dtd html 3//",
	"-//ietf//dtd html level 0//",
	"-//ietf//dtd html level 1//",
	"-//ietf//dtd html level 2//",
	"-//ietf//dtd html level 3//",
	"-//ietf//dtd html strict level 0//",
	"-//ietf//dtd html strict level 1//",
	"-//ietf//dtd html strict level 2//",
	"-//ietf//dtd html strict level 3//",
	"-//ietf//dtd html strict//",
	"-//ietf//dtd html//",
	"-//metrius//dtd metrius presentational//",
	"-//microsoft//dtd internet explorer 2.0 html strict//",
	"-//microsoft//dtd internet explorer 2.0 html//",
	"-//microsoft//dtd internet explorer 2.0 tables//",
	"-//microsoft//dtd internet explorer 3.0 html strict//",
	"-//microsoft//dtd internet explorer 3.0 html//",
	"-//microsoft//dtd internet explorer 3.0 tables//",
	"-//netscape comm. corp.//dtd html//",
	"-//netscape comm. corp.//dtd strict html//",
	"-//o'reilly and associates//dtd html 2.0//",
	"-//o'reilly and associates//dtd html extended 1.0//",
	"-//o'reilly and associates//dtd html extended relaxed 1.0//",
	"-//softquad software//dtd hotmetal pro 6.0::19990601::extensions to html 4.0//",
	"-//softquad//dtd hotmetal pro 4.0::19971010::extensions to html 4.0//",
	"-//spyglass//dtd html 2.0 extended//",
	"-//sq//dtd html 2.0 hotmetal + extensions//",
	"-//sun microsystems corp.//dtd hotjava html//",
	"-//sun microsystems corp.//dtd hotjava strict html//",
	"-//w3c//dtd html 3 1995-03-24//",
	"-//w3c//dtd html 3.2 draft//",
	"-//w3c//dtd html 3.2 final//",
	"-//w3c//dtd html 3.2//",
	"-//w3c//dtd html 3.2s draft//",
	"-//w3c//dtd html 4.0 frameset//",
	"-//w3c//dtd html 4.0 transitional//",
	"-//w3c//dtd html experimental 19960712//",
	"-//w3c//dtd html experimental 970421//",
	"-//w3c//dtd w3 html//",
	"-//w3o//dtd w3 html 3.0//",
	"-//webtechs//dtd mozilla html 2.0//",
	"-//webtechs//dtd mozilla html//",
}
