package main

import "github.com/facultyms/appraise/cmd/appraise/cmd"

func main() {
	cmd.Execute()
}
