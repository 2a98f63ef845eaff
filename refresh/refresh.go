package refresh

import (
	"github.com/drmoyassine/frontbase-query/binding"
	"github.com/drmoyassine/frontbase-query/compiler"
	"github.com/drmoyassine/frontbase-query/options"
)

type (
	//Input is one snapshot of a rendered table
	Input struct {
		Binding *binding.TableBinding
		State   *binding.State
	}

	//Decision names the work a snapshot change requires, a presentation only
	//change requires none
	Decision struct {
		FetchData    bool
		Key          *compiler.Key
		StaleFilters []string
	}
)

//Plan compares two snapshots. Data refetches only when the derived key
//changed, an option list refetches only when its dependency fingerprint
//changed or its filter was not rendered before.
func Plan(prev, next Input) Decision {
	result := Decision{Key: compiler.NewKey(next.Binding, next.State)}
	if next.Binding == nil {
		return result
	}
	result.FetchData = prev.Binding == nil || !compiler.NewKey(prev.Binding, prev.State).Equal(result.Key)
	for _, filter := range next.Binding.FrontendFilters {
		if !filter.HasDynamicOptions() {
			continue
		}
		if isStale(prev, filter, next.State) {
			result.StaleFilters = append(result.StaleFilters, filter.ID)
		}
	}
	return result
}

func isStale(prev Input, filter *binding.FilterConfig, nextState *binding.State) bool {
	if prev.Binding == nil || prev.Binding.FilterByID(filter.ID) == nil {
		return true
	}
	return options.DependencyKey(filter, prev.State) != options.DependencyKey(filter, nextState)
}
