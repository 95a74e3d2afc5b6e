package html

import "strconv"

// An InsertionMode is a state of the tree construction stage. Section
// 12.2.4.1.
type InsertionMode uint8

const (
	InitialMode InsertionMode = iota
	BeforeHTMLMode
	BeforeHeadMode
	InHeadMode
	InHeadNoscriptMode
	AfterHeadMode
	InBodyMode
	TextMode
	InTableMode
	InTableTextMode
	InCaptionMode
	InColumnGroupMode
	InTableBodyMode
	InRowMode
	InCellMode
	InSelectMode
	InSelectInTableMode
	InTemplateMode
	AfterBodyMode
	InFramesetMode
	AfterFramesetMode
	AfterAfterBodyMode
	AfterAfterFramesetMode
)

var insertionModeNames = [...]string{
	InitialMode:            "initial",
	BeforeHTMLMode:         "before html",
	BeforeHeadMode:         "before head",
	InHeadMode:             "in head",
	InHeadNoscriptMode:     "in head noscript",
	AfterHeadMode:          "after head",
	InBodyMode:             "in body",
	TextMode:               "text",
	InTableMode:            "in table",
	InTableTextMode:        "in table text",
	InCaptionMode:          "in caption",
	InColumnGroupMode:      "in column group",
	InTableBodyMode:        "in table body",
	InRowMode:              "in row",
	InCellMode:             "in cell",
	InSelectMode:           "in select",
	InSelectInTableMode:    "in select in table",
	InTemplateMode:         "in template",
	AfterBodyMode:          "after body",
	InFramesetMode:         "in frameset",
	AfterFramesetMode:      "after frameset",
	AfterAfterBodyMode:     "after after body",
	AfterAfterFramesetMode: "after after frameset",
}

func (m InsertionMode) String() string {
	if int(m) < len(insertionModeNames) {
		return insertionModeNames[m]
	}
	return "InsertionMode(" + strconv.Itoa(int(m)) + ")"
}

// dispatch processes the current token with the rules of insertion mode m.
// It returns whether the token was consumed; otherwise the token is
// reprocessed in the (possibly changed) current insertion mode.
func (p *parser) dispatch(m InsertionMode) bool {
	switch m {
	case InitialMode:
		return initialIM(p)
	case BeforeHTMLMode:
		return beforeHTMLIM(p)
	case BeforeHeadMode:
		return beforeHeadIM(p)
	case InHeadMode:
		return inHeadIM(p)
	case InHeadNoscriptMode:
		return inHeadNoscriptIM(p)
	case AfterHeadMode:
		return afterHeadIM(p)
	case InBodyMode:
		return inBodyIM(p)
	case TextMode:
		return textIM(p)
	case InTableMode:
		return inTableIM(p)
	case InTableTextMode:
		return inTableTextIM(p)
	case InCaptionMode:
		return inCaptionIM(p)
	case InColumnGroupMode:
		return inColumnGroupIM(p)
	case InTableBodyMode:
		return inTableBodyIM(p)
	case InRowMode:
		return inRowIM(p)
	case InCellMode:
		return inCellIM(p)
	case InSelectMode:
		return inSelectIM(p)
	case InSelectInTableMode:
		return inSelectInTableIM(p)
	case InTemplateMode:
		return inTemplateIM(p)
	case AfterBodyMode:
		return afterBodyIM(p)
	case InFramesetMode:
		return inFramesetIM(p)
	case AfterFramesetMode:
		return afterFramesetIM(p)
	case AfterAfterBodyMode:
		return afterAfterBodyIM(p)
	case AfterAfterFramesetMode:
		return afterAfterFramesetIM(p)
	}
	p.fail("unknown insertion mode %d", m)
	return true
}
