package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lightninglabs/muda"
	"github.com/urfave/cli"
)

func printJSON(resp interface{}) {
	b, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		fmt.Println("unable to encode response: ", err)
		return
	}

	fmt.Println(string(b))
}

func fatal(err error) {
	_, _ = fmt.Fprintf(os.Stderr, "[mudacli] %v\n", err)
	os.Exit(1)
}

func main() {
	app := cli.NewApp()

	app.Version = muda.Version()
	app.Name = "mudacli"
	app.Usage = "clear double auctions with the WALRAS and MUDA mechanisms"
	app.Commands = []cli.Command{
		walrasCommand,
		mudaCommand,
		clearCommand,
	}

	err := app.Run(os.Args)
	if err != nil {
		fatal(err)
	}
}
