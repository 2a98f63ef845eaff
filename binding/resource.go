package binding

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

var fs = afs.New()

//NewBindingFromURL loads and initializes a table binding from a .yaml or .json asset
func NewBindingFromURL(ctx context.Context, URL string) (*TableBinding, error) {
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, err
	}
	ret := &TableBinding{}
	if strings.HasSuffix(URL, ".yaml") || strings.HasSuffix(URL, ".yml") {
		if err = yaml.Unmarshal(data, ret); err != nil {
			return nil, err
		}
	} else {
		if err = json.Unmarshal(data, ret); err != nil {
			return nil, err
		}
	}
	return ret, ret.Init()
}
