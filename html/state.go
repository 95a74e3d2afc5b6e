package html

// State is a tokenizer state. Character references are decoded inline by
// the states that accept them, so the character reference sub-states of the
// WHATWG tokenizer have no State of their own.
type State uint8

const (
	DataState State = iota
	RCDATAState
	RAWTEXTState
	ScriptDataState
	PLAINTEXTState
	TagOpenState
	EndTagOpenState
	TagNameState
	RCDATALessThanSignState
	RCDATAEndTagOpenState
	RCDATAEndTagNameState
	RAWTEXTLessThanSignState
	RAWTEXTEndTagOpenState
	RAWTEXTEndTagNameState
	ScriptDataLessThanSignState
	ScriptDataEndTagOpenState
	ScriptDataEndTagNameState
	ScriptDataEscapeStartState
	ScriptDataEscapeStartDashState
	ScriptDataEscapedState
	ScriptDataEscapedDashState
	ScriptDataEscapedDashDashState
	ScriptDataEscapedLessThanSignState
	ScriptDataEscapedEndTagOpenState
	ScriptDataEscapedEndTagNameState
	ScriptDataDoubleEscapeStartState
	ScriptDataDoubleEscapedState
	ScriptDataDoubleEscapedDashState
	ScriptDataDoubleEscapedDashDashState
	ScriptDataDoubleEscapedLessThanSignState
	ScriptDataDoubleEscapeEndState
	BeforeAttributeNameState
	AttributeNameState
	AfterAttributeNameState
	BeforeAttributeValueState
	AttributeValueDoubleQuotedState
	AttributeValueSingleQuotedState
	AttributeValueUnquotedState
	AfterAttributeValueQuotedState
	SelfClosingStartTagState
	BogusCommentState
	MarkupDeclarationOpenState
	CommentStartState
	CommentStartDashState
	CommentState
	CommentLessThanSignState
	CommentLessThanSignBangState
	CommentLessThanSignBangDashState
	CommentLessThanSignBangDashDashState
	CommentEndDashState
	CommentEndState
	CommentEndBangState
	DoctypeState
	BeforeDoctypeNameState
	DoctypeNameState
	AfterDoctypeNameState
	AfterDoctypePublicKeywordState
	BeforeDoctypePublicIdentifierState
	DoctypePublicIdentifierDoubleQuotedState
	DoctypePublicIdentifierSingleQuotedState
	AfterDoctypePublicIdentifierState
	BetweenDoctypePublicAndSystemIdentifiersState
	AfterDoctypeSystemKeywordState
	BeforeDoctypeSystemIdentifierState
	DoctypeSystemIdentifierDoubleQuotedState
	DoctypeSystemIdentifierSingleQuotedState
	AfterDoctypeSystemIdentifierState
	BogusDoctypeState
	CDATASectionState
	CDATASectionBracketState
	CDATASectionEndState
)

var stateNames = [...]string{
	DataState:                                     "Data",
	RCDATAState:                                   "RCDATA",
	RAWTEXTState:                                  "RAWTEXT",
	ScriptDataState:                               "ScriptData",
	PLAINTEXTState:                                "PLAINTEXT",
	TagOpenState:                                  "TagOpen",
	EndTagOpenState:                               "EndTagOpen",
	TagNameState:                                  "TagName",
	RCDATALessThanSignState:                       "RCDATALessThanSign",
	RCDATAEndTagOpenState:                         "RCDATAEndTagOpen",
	RCDATAEndTagNameState:                         "RCDATAEndTagName",
	RAWTEXTLessThanSignState:                      "RAWTEXTLessThanSign",
	RAWTEXTEndTagOpenState:                        "RAWTEXTEndTagOpen",
	RAWTEXTEndTagNameState:                        "RAWTEXTEndTagName",
	ScriptDataLessThanSignState:                   "ScriptDataLessThanSign",
	ScriptDataEndTagOpenState:                     "ScriptDataEndTagOpen",
	ScriptDataEndTagNameState:                     "ScriptDataEndTagName",
	ScriptDataEscapeStartState:                    "ScriptDataEscapeStart",
	ScriptDataEscapeStartDashState:                "ScriptDataEscapeStartDash",
	ScriptDataEscapedState:                        "ScriptDataEscaped",
	ScriptDataEscapedDashState:                    "ScriptDataEscapedDash",
	ScriptDataEscapedDashDashState:                "ScriptDataEscapedDashDash",
	ScriptDataEscapedLessThanSignState:            "ScriptDataEscapedLessThanSign",
	ScriptDataEscapedEndTagOpenState:              "ScriptDataEscapedEndTagOpen",
	ScriptDataEscapedEndTagNameState:              "ScriptDataEscapedEndTagName",
	ScriptDataDoubleEscapeStartState:              "ScriptDataDoubleEscapeStart",
	ScriptDataDoubleEscapedState:                  "ScriptDataDoubleEscaped",
	ScriptDataDoubleEscapedDashState:              "ScriptDataDoubleEscapedDash",
	ScriptDataDoubleEscapedDashDashState:          "ScriptDataDoubleEscapedDashDash",
	ScriptDataDoubleEscapedLessThanSignState:      "ScriptDataDoubleEscapedLessThanSign",
	ScriptDataDoubleEscapeEndState:                "ScriptDataDoubleEscapeEnd",
	BeforeAttributeNameState:                      "BeforeAttributeName",
	AttributeNameState:                            "AttributeName",
	AfterAttributeNameState:                       "AfterAttributeName",
	BeforeAttributeValueState:                     "BeforeAttributeValue",
	AttributeValueDoubleQuotedState:               "AttributeValueDoubleQuoted",
	AttributeValueSingleQuotedState:               "AttributeValueSingleQuoted",
	AttributeValueUnquotedState:                   "AttributeValueUnquoted",
	AfterAttributeValueQuotedState:                "AfterAttributeValueQuoted",
	SelfClosingStartTagState:                      "SelfClosingStartTag",
	BogusCommentState:                             "BogusComment",
	MarkupDeclarationOpenState:                    "MarkupDeclarationOpen",
	CommentStartState:                             "CommentStart",
	CommentStartDashState:                         "CommentStartDash",
	CommentState:                                  "Comment",
	CommentLessThanSignState:                      "CommentLessThanSign",
	CommentLessThanSignBangState:                  "CommentLessThanSignBang",
	CommentLessThanSignBangDashState:              "CommentLessThanSignBangDash",
	CommentLessThanSignBangDashDashState:          "CommentLessThanSignBangDashDash",
	CommentEndDashState:                           "CommentEndDash",
	CommentEndState:                               "CommentEnd",
	CommentEndBangState:                           "CommentEndBang",
	DoctypeState:                                  "DOCTYPE",
	BeforeDoctypeNameState:                        "BeforeDOCTYPEName",
	DoctypeNameState:                              "DOCTYPEName",
	AfterDoctypeNameState:                         "AfterDOCTYPEName",
	AfterDoctypePublicKeywordState:                "AfterDOCTYPEPublicKeyword",
	BeforeDoctypePublicIdentifierState:            "BeforeDOCTYPEPublicIdentifier",
	DoctypePublicIdentifierDoubleQuotedState:      "DOCTYPEPublicIdentifierDoubleQuoted",
	DoctypePublicIdentifierSingleQuotedState:      "DOCTYPEPublicIdentifierSingleQuoted",
	AfterDoctypePublicIdentifierState:             "AfterDOCTYPEPublicIdentifier",
	BetweenDoctypePublicAndSystemIdentifiersState: "BetweenDOCTYPEPublicAndSystemIdentifiers",
	AfterDoctypeSystemKeywordState:                "AfterDOCTYPESystemKeyword",
	BeforeDoctypeSystemIdentifierState:            "BeforeDOCTYPESystemIdentifier",
	DoctypeSystemIdentifierDoubleQuotedState:      "DOCTYPESystemIdentifierDoubleQuoted",
	DoctypeSystemIdentifierSingleQuotedState:      "DOCTYPESystemIdentifierSingleQuoted",
	AfterDoctypeSystemIdentifierState:             "AfterDOCTYPESystemIdentifier",
	BogusDoctypeState:                             "BogusDOCTYPE",
	CDATASectionState:                             "CDATASection",
	CDATASectionBracketState:                      "CDATASectionBracket",
	CDATASectionEndState:                          "CDATASectionEnd",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "Invalid"
}
