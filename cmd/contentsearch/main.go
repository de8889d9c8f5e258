// Command contentsearch highlights search terms in HTML pages.
package main

func main() {
	execute()
}
