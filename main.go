package main

import "github.com/theirongolddev/paytrend/cmd"

func main() {
	cmd.Execute()
}
