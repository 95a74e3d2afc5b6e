package html

import (
	"errors"
	"fmt"

	"github.com/dpotapov/go-htmlast/dom"
)

// An ErrorCode identifies a parse error. Tokenizer codes follow the names
// used by the WHATWG HTML standard.
type ErrorCode string

// Tokenizer errors.
const (
	ErrAbruptClosingOfEmptyComment                       ErrorCode = "abrupt-closing-of-empty-comment"
	ErrAbruptDoctypePublicIdentifier                     ErrorCode = "abrupt-doctype-public-identifier"
	ErrAbruptDoctypeSystemIdentifier                     ErrorCode = "abrupt-doctype-system-identifier"
	ErrAbsenceOfDigitsInNumericCharacterReference        ErrorCode = "absence-of-digits-in-numeric-character-reference"
	ErrCDATAInHTMLContent                                ErrorCode = "cdata-in-html-content"
	ErrCharacterReferenceOutsideUnicodeRange             ErrorCode = "character-reference-outside-unicode-range"
	ErrControlCharacterReference                         ErrorCode = "control-character-reference"
	ErrDuplicateAttribute                                ErrorCode = "duplicate-attribute"
	ErrEndTagWithAttributes                              ErrorCode = "end-tag-with-attributes"
	ErrEndTagWithTrailingSolidus                         ErrorCode = "end-tag-with-trailing-solidus"
	ErrEOFBeforeTagName                                  ErrorCode = "eof-before-tag-name"
	ErrEOFInCDATA                                        ErrorCode = "eof-in-cdata"
	ErrEOFInComment                                      ErrorCode = "eof-in-comment"
	ErrEOFInDoctype                                      ErrorCode = "eof-in-doctype"
	ErrEOFInScriptHTMLCommentLikeText                    ErrorCode = "eof-in-script-html-comment-like-text"
	ErrEOFInTag                                          ErrorCode = "eof-in-tag"
	ErrIncorrectlyClosedComment                          ErrorCode = "incorrectly-closed-comment"
	ErrIncorrectlyOpenedComment                          ErrorCode = "incorrectly-opened-comment"
	ErrInvalidCharacterSequenceAfterDoctypeName          ErrorCode = "invalid-character-sequence-after-doctype-name"
	ErrInvalidFirstCharacterOfTagName                    ErrorCode = "invalid-first-character-of-tag-name"
	ErrMissingAttributeValue                             ErrorCode = "missing-attribute-value"
	ErrMissingDoctypeName                                ErrorCode = "missing-doctype-name"
	ErrMissingDoctypePublicIdentifier                    ErrorCode = "missing-doctype-public-identifier"
	ErrMissingDoctypeSystemIdentifier                    ErrorCode = "missing-doctype-system-identifier"
	ErrMissingEndTagName                                 ErrorCode = "missing-end-tag-name"
	ErrMissingQuoteBeforeDoctypePublicIdentifier         ErrorCode = "missing-quote-before-doctype-public-identifier"
	ErrMissingQuoteBeforeDoctypeSystemIdentifier         ErrorCode = "missing-quote-before-doctype-system-identifier"
	ErrMissingSemicolonAfterCharacterReference           ErrorCode = "missing-semicolon-after-character-reference"
	ErrMissingWhitespaceAfterDoctypePublicKeyword        ErrorCode = "missing-whitespace-after-doctype-public-keyword"
	ErrMissingWhitespaceAfterDoctypeSystemKeyword        ErrorCode = "missing-whitespace-after-doctype-system-keyword"
	ErrMissingWhitespaceBeforeDoctypeName                ErrorCode = "missing-whitespace-before-doctype-name"
	ErrMissingWhitespaceBetweenAttributes                ErrorCode = "missing-whitespace-between-attributes"
	ErrMissingWhitespaceBetweenDoctypePublicAndSystemIDs ErrorCode = "missing-whitespace-between-doctype-public-and-system-identifiers"
	ErrNestedComment                                     ErrorCode = "nested-comment"
	ErrNoncharacterCharacterReference                    ErrorCode = "noncharacter-character-reference"
	ErrNullCharacterReference                            ErrorCode = "null-character-reference"
	ErrSurrogateCharacterReference                       ErrorCode = "surrogate-character-reference"
	ErrUnexpectedCharacterAfterDoctypeSystemIdentifier   ErrorCode = "unexpected-character-after-doctype-system-identifier"
	ErrUnexpectedCharacterInAttributeName                ErrorCode = "unexpected-character-in-attribute-name"
	ErrUnexpectedCharacterInUnquotedAttributeValue       ErrorCode = "unexpected-character-in-unquoted-attribute-value"
	ErrUnexpectedEqualsSignBeforeAttributeName           ErrorCode = "unexpected-equals-sign-before-attribute-name"
	ErrUnexpectedNullCharacter                           ErrorCode = "unexpected-null-character"
	ErrUnexpectedQuestionMarkInsteadOfTagName            ErrorCode = "unexpected-question-mark-instead-of-tag-name"
	ErrUnexpectedSolidusInTag                            ErrorCode = "unexpected-solidus-in-tag"
	ErrUnknownNamedCharacterReference                    ErrorCode = "unknown-named-character-reference"
)

// Tree construction errors.
const (
	ErrMissingDoctype                ErrorCode = "missing-doctype"
	ErrNonConformingDoctype          ErrorCode = "non-conforming-doctype"
	ErrUnexpectedDoctype             ErrorCode = "unexpected-doctype"
	ErrUnexpectedStartTag            ErrorCode = "unexpected-start-tag"
	ErrUnexpectedEndTag              ErrorCode = "unexpected-end-tag"
	ErrUnexpectedCharacters          ErrorCode = "unexpected-characters"
	ErrEndTagWithUnclosedElements    ErrorCode = "end-tag-with-unclosed-elements"
	ErrMisnestedFormattingElement    ErrorCode = "misnested-formatting-element"
	ErrFosterParentedContent         ErrorCode = "foster-parented-content"
	ErrUnexpectedCharactersAfterBody ErrorCode = "unexpected-characters-after-body"
	ErrEOFWithOpenElements           ErrorCode = "eof-with-open-elements"
	ErrNonVoidSelfClosingTag         ErrorCode = "non-void-html-element-start-tag-with-trailing-solidus"
)

// ParseError is a recoverable error found while parsing. Parsing continues
// after a ParseError and always produces a tree.
type ParseError struct {
	Pos  dom.Position
	Code ErrorCode
	// Tag is the tag name of the offending token, if any.
	Tag string
}

func (e *ParseError) Error() string {
	if e.Tag != "" {
		return fmt.Sprintf("%s: %s <%s>", e.Pos, e.Code, e.Tag)
	}
	return fmt.Sprintf("%s: %s", e.Pos, e.Code)
}

// ErrorList is the ordered sequence of parse errors of one parse.
type ErrorList []*ParseError

// Err returns nil for an empty list, and all errors joined otherwise.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	errs := make([]error, len(l))
	for i, e := range l {
		errs[i] = e
	}
	return errors.Join(errs...)
}

// Codes returns the error codes in order.
func (l ErrorList) Codes() []ErrorCode {
	codes := make([]ErrorCode, len(l))
	for i, e := range l {
		codes[i] = e.Code
	}
	return codes
}

// FatalError aborts a parse. It is returned for internal invariant
// violations, which indicate a bug in the parser.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return "html: fatal: " + e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// invariantError is panicked by the parser on an internal inconsistency and
// recovered into a FatalError at the Parse boundary.
type invariantError struct {
	err error
}
