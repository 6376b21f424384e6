package requirements

import (
	"github.com/platinummonkey/xviz-recipe/pkg/options"
)

// Pinned dependency references
var (
	Protobuf    = MustParseReference("protobuf/3.21.9")
	Fmt         = MustParseReference("fmt/9.1.0")
	GTest       = MustParseReference("gtest/cci.20210126")
	Websocketpp = MustParseReference("websocketpp/0.8.2")
	Lodepng     = MustParseReference("lodepng/cci.20200615")
)

const (
	// ProducerName is the name of the published library package
	ProducerName = "xviz"
	// ConsumerUser and ConsumerChannel namespace the package under test
	ConsumerUser    = "local"
	ConsumerChannel = "test"
)

// Sub-options written onto the transport dependency
const (
	OptionAsio        = "asio"
	OptionWithOpenSSL = "with_openssl"
	AsioStandalone    = "standalone"
)

// BaseRule always requires the serialization and formatting libraries
func BaseRule() Rule {
	return Rule{
		Name: "base",
		Apply: func(options.Values, Context) Contribution {
			return Contribution{Requires: []Reference{Protobuf, Fmt}}
		},
	}
}

// TestsRule requires the test framework when build_tests is on
func TestsRule() Rule {
	return Rule{
		Name: "tests",
		Apply: func(values options.Values, _ Context) Contribution {
			if !values.Enabled(options.BuildTests) {
				return Contribution{}
			}
			return Contribution{Requires: []Reference{GTest}}
		},
	}
}

// ExamplesRule requires the transport and image libraries when build_examples is on
func ExamplesRule() Rule {
	return Rule{
		Name: "examples",
		Apply: func(values options.Values, ctx Context) Contribution {
			if !values.Enabled(options.BuildExamples) {
				return Contribution{}
			}
			return Contribution{
				Requires:  []Reference{Websocketpp, Lodepng},
				Overrides: transportOverrides(ctx.CI),
			}
		},
	}
}

// ConsumerRule requires the published package at the resolved version plus
// the transport and image libraries its sample programs link, with TLS disabled
func ConsumerRule() Rule {
	return Rule{
		Name: "consumer",
		Apply: func(_ options.Values, ctx Context) Contribution {
			pkg := Reference{
				Name:    ProducerName,
				Version: ctx.Version,
				User:    ConsumerUser,
				Channel: ConsumerChannel,
			}
			return Contribution{
				Requires:  []Reference{pkg, Websocketpp, Lodepng},
				Overrides: transportOverrides(true),
			}
		},
	}
}

func transportOverrides(disableTLS bool) []Override {
	overrides := []Override{{Package: Websocketpp.Name, Key: OptionAsio, Value: AsioStandalone}}
	if disableTLS {
		overrides = append(overrides, Override{
			Package: Websocketpp.Name,
			Key:     OptionWithOpenSSL,
			Value:   options.FormatBool(false),
		})
	}
	return overrides
}

// ProducerRules are the rules of the library package
func ProducerRules() []Rule {
	return []Rule{BaseRule(), TestsRule(), ExamplesRule()}
}

// ConsumerRules are the rules of the consumer validation package
func ConsumerRules() []Rule {
	return []Rule{ConsumerRule()}
}
