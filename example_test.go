package htmlast_test

import (
	"fmt"
	"os"
	"strings"

	"github.com/dpotapov/go-htmlast"
	"github.com/dpotapov/go-htmlast/render"
)

func ExampleParse() {
	res, err := htmlast.Parse(strings.NewReader("<title>Hi</title><p class=x>one<p>two"))
	if err != nil {
		panic(err)
	}
	for _, e := range res.Errors {
		fmt.Println(e)
	}
	if err := htmlast.RenderDocument(os.Stdout, res.Document, render.Options{}); err != nil {
		panic(err)
	}
	// Output:
	// 1:1: missing-doctype <title>
	// <!DOCTYPE html><html><head><title>Hi</title></head><body><p class="x">one</p><p>two</p></body></html>
}
