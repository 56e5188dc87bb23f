// jsongate serves an HTTP API whose JSON endpoints only ever see
// well-formed application/json payloads.
package main

func main() {
	Execute()
}
