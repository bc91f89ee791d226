package main

import "github.com/lu-zhengda/tagside/internal/cli"

func main() {
	cli.Execute()
}
