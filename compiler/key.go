package compiler

import (
	"hash/fnv"
	"strconv"
	"strings"

	"github.com/drmoyassine/frontbase-query/binding"
)

//Key is the minimal tuple that determines a query result. Bindings differing
//only in presentation fields produce equal keys.
type Key struct {
	Identity      string
	Page          int
	SortColumn    string
	SortDirection string
	Search        string
	Filters       string
}

//NewKey derives a cache key from a binding and runtime state
func NewKey(aBinding *binding.TableBinding, aState *binding.State) *Key {
	if aState == nil {
		aState = &binding.State{}
	}
	sortColumn, sortDirection := resolveSort(aBinding, aState)
	return &Key{
		Identity:      identity(aBinding),
		Page:          aState.Page,
		SortColumn:    sortColumn,
		SortDirection: sortDirection,
		Search:        aState.Search,
		Filters:       aState.FilterFingerprint(""),
	}
}

func identity(aBinding *binding.TableBinding) string {
	if aBinding == nil {
		return ""
	}
	if aBinding.TableName != "" {
		return aBinding.TableName
	}
	if config := aBinding.DataRequest.Config(); config != nil && config.TableName != "" {
		return config.TableName
	}
	if aBinding.DataRequest != nil {
		return aBinding.DataRequest.URL
	}
	return ""
}

//Fingerprint returns the canonical tuple form
func (k *Key) Fingerprint() string {
	return strings.Join([]string{
		k.Identity,
		strconv.Itoa(k.Page),
		k.SortColumn,
		k.SortDirection,
		k.Search,
		k.Filters,
	}, "|")
}

//String returns a compact cache key, identity kept readable for diagnostics
func (k *Key) String() string {
	hasher := fnv.New64a()
	_, _ = hasher.Write([]byte(k.Fingerprint()))
	return k.Identity + ":" + strconv.FormatUint(hasher.Sum64(), 16)
}

//Equal compares the canonical form
func (k *Key) Equal(other *Key) bool {
	if k == nil || other == nil {
		return k == other
	}
	return k.Fingerprint() == other.Fingerprint()
}
