package main

import "github.com/saadjs/grocery-cli/cmd/grocery"

func main() {
	grocery.Execute()
}
