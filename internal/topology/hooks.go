package topology

import (
	"reflect"

	"github.com/mitchellh/mapstructure"

	"github.com/clustercore/domuopt/internal/cluster"
)

// stringToProcessorTypeHookFunc decodes a processor type's String() form
// ("Core2", "Xeon", ...) into a cluster.ProcessorType, the same style as
// mapstructure.StringToIPHookFunc decodes an address literal into a net.IP.
func stringToProcessorTypeHookFunc() mapstructure.DecodeHookFunc {
	return func(from, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to != reflect.TypeOf(cluster.ProcessorType(0)) {
			return data, nil
		}
		return cluster.ParseProcessorType(data.(string))
	}
}

// stringToProcessorArchitectureHookFunc decodes a processor architecture's
// String() form ("x86_64", "i686") into a cluster.ProcessorArchitecture.
func stringToProcessorArchitectureHookFunc() mapstructure.DecodeHookFunc {
	return func(from, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to != reflect.TypeOf(cluster.ProcessorArchitecture(0)) {
			return data, nil
		}
		return cluster.ParseProcessorArchitecture(data.(string))
	}
}
