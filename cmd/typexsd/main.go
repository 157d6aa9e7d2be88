// typexsd generates XML Schema documents from a type model.
//
//	typexsd generate --model company.yaml --out ./xsd
//	typexsd watch --model company.yaml --out ./xsd
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
