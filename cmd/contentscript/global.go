package main

import "github.com/gopherjs/gopherjs/js"

var (
	document *js.Object
	window   *js.Object
	console  *js.Object
	chrome   *js.Object
)

func init() {
	window = js.Global
	document = js.Global.Get("document")
	console = js.Global.Get("console")
	chrome = js.Global.Get("chrome")
}

func consoleLog(args ...interface{}) {
	console.Call("log", args...)
}

// defined reports whether o holds a JS value other than null or undefined.
func defined(o *js.Object) bool {
	return o != nil && o != js.Undefined
}
