package main

import (
	"fmt"
	"os"

	fbquery "github.com/drmoyassine/frontbase-query"
	"github.com/drmoyassine/frontbase-query/cmd"
	"github.com/drmoyassine/frontbase-query/httputils"
	"github.com/drmoyassine/frontbase-query/shared"
)

func main() {
	if err := cmd.Run(fbquery.Version, os.Args[1:]); err != nil {
		if queryError := shared.AsQueryError(err); queryError != nil {
			statusCode, message := httputils.BuildErrorResponse(queryError)
			fmt.Fprintf(os.Stderr, "ERROR: [%v] %v\n", statusCode, message)
		} else {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		}
		os.Exit(1)
	}
}
