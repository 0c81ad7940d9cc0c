// cmd/intake-api/main.go
package main

func main() {
	Execute()
}
