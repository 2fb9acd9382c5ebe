package main

import "github.com/kailas-cloud/cmsconsole/internal/cli"

func main() {
	cli.Execute()
}
