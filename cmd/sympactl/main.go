package main

import "github.com/aalvaropc/sympactl/internal/cli"

func main() {
	cli.Execute()
}
