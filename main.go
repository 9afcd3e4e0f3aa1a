package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/edgelesssys/go-tpm-qvl/verification/types"
)

func main() {
	if err := parseBlob(); err != nil {
		panic(err)
	}
}

func parseBlob() error {
	path := "blobs/quote"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	rawQuote, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	parsedQuote, err := types.ParseQuote(rawQuote)
	if err != nil {
		return err
	}

	prettyPrint, err := json.MarshalIndent(parsedQuote, "", " ")
	if err != nil {
		return err
	}

	fmt.Println(string(prettyPrint))

	return nil
}
