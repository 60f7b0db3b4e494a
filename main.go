package main

import "object-signer/cmd"

func main() {
	cmd.Execute()
}
