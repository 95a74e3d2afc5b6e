package html_test

import (
	"fmt"

	"github.com/dpotapov/go-htmlast/html"
)

func ExampleParseString() {
	doc, errs, err := html.ParseString("<p>Hello<b>world")
	if err != nil {
		panic(err)
	}
	fmt.Println(doc.Text(doc.DocumentElement()))
	for _, e := range errs {
		fmt.Println(e)
	}
	// Output:
	// Helloworld
	// 1:1: missing-doctype <p>
	// 1:17: eof-with-open-elements
}
