package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	fbquery "github.com/drmoyassine/frontbase-query"
	"github.com/drmoyassine/frontbase-query/binding"
	"github.com/drmoyassine/frontbase-query/compiler"
	"github.com/francoispqt/gojay"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

//Options holds the command line arguments
type Options struct {
	BindingURL    string   `short:"b" long:"binding" description:"table binding URL (.yaml or .json)"`
	Page          int      `short:"p" long:"page" description:"zero based page"`
	Sort          string   `short:"s" long:"sort" description:"sort column"`
	Dir           string   `short:"d" long:"dir" description:"sort direction" choice:"asc" choice:"desc"`
	Search        string   `short:"q" long:"search" description:"search term"`
	Filters       []string `short:"f" long:"filter" description:"filter in col=value form, repeatable"`
	Endpoint      string   `short:"e" long:"endpoint" description:"data service base URL, without it the compiled request prints instead"`
	CacheProvider string   `short:"c" long:"cache" description:"cache store provider" choice:"memory" choice:"ristretto"`
	ShowOptions   bool     `short:"o" long:"options" description:"resolve filter option lists instead of rows"`
	Version       bool     `short:"v" long:"version" description:"build version"`
}

//Run parses arguments and executes one query or compile operation
func Run(version string, args []string) error {
	options := &Options{}
	if _, err := flags.ParseArgs(options, args); err != nil {
		if flags.WroteHelp(err) {
			return nil
		}
		return err
	}
	if options.Version {
		fmt.Printf("fbquery: version: %v\n", version)
		return nil
	}
	return run(context.Background(), options, os.Stdout)
}

func run(ctx context.Context, options *Options, writer io.Writer) error {
	if options.BindingURL == "" {
		return errors.New("binding URL was empty")
	}
	aBinding, err := binding.NewBindingFromURL(ctx, options.BindingURL)
	if err != nil {
		return err
	}
	aState, err := options.state(aBinding)
	if err != nil {
		return err
	}
	if options.Endpoint == "" {
		return printRequest(writer, aBinding, aState)
	}
	serviceOptions := []fbquery.Option{fbquery.WithEndpoint(options.Endpoint)}
	if options.CacheProvider != "" {
		serviceOptions = append(serviceOptions, fbquery.WithCacheProvider(options.CacheProvider))
	}
	service, err := fbquery.New(serviceOptions...)
	if err != nil {
		return err
	}
	defer service.Close()
	if options.ShowOptions {
		return printJSON(writer, service.Options(ctx, aBinding, aState))
	}
	result, err := service.Fetch(ctx, aBinding, aState)
	if err != nil {
		return err
	}
	return printJSON(writer, result)
}

//state folds the command line into a runtime state, filter values parse
//against the type the binding configures for their column.
func (o *Options) state(aBinding *binding.TableBinding) (*binding.State, error) {
	aState := &binding.State{
		Page:          o.Page,
		Search:        o.Search,
		SortColumn:    o.Sort,
		SortDirection: o.Dir,
	}
	for _, pair := range o.Filters {
		column, text, ok := strings.Cut(pair, "=")
		if !ok || column == "" {
			return nil, errors.Errorf("invalid filter %q, expected col=value", pair)
		}
		filterType := binding.FilterText
		if filter := aBinding.FilterByColumn(column); filter != nil {
			filterType = filter.FilterType
		}
		value, err := binding.ParseValue(filterType, text)
		if err != nil {
			return nil, err
		}
		aState.SetFilter(column, value)
	}
	return aState, nil
}

func printRequest(writer io.Writer, aBinding *binding.TableBinding, aState *binding.State) error {
	request := compiler.NewBuilder().Build(aBinding, aState)
	if request.IsEmpty() {
		_, err := fmt.Fprintln(writer, `{"unconfigured":true}`)
		return err
	}
	data, err := gojay.MarshalJSONObject(request)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(writer, string(data))
	return err
}

func printJSON(writer io.Writer, value interface{}) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(writer, string(data))
	return err
}
