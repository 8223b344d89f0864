package main

import "github.com/taeyoon0526/taeyoon.kr-sub000/cmd"

func main() {
	cmd.Execute()
}
