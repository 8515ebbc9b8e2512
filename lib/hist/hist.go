package hist

import "github.com/ValentinKolb/hKV/lib/hist/util"

// --------------------------------------------------------------------------
// Helper Types
// --------------------------------------------------------------------------

type Implementation string

const (
	ImplChain Implementation = "chain"
	ImplArena Implementation = "arena"
)

// Feature represents history engine features as bit flags
type Feature uint64

const (
	FeatureAdd     Feature = 1 << iota // Support for Add operations
	FeatureRundown                     // Support for AddRundown operations
	FeatureGet                         // Support for TryGetValue operations
	FeatureRemove                      // Support for Remove operations
	FeatureEntries                     // Support for enumeration via Entries
	FeatureStats                       // Support for GetInfo statistics
)

func (f Feature) String() string {
	switch f {
	case FeatureAdd:
		return "Add"
	case FeatureRundown:
		return "Rundown"
	case FeatureGet:
		return "Get"
	case FeatureRemove:
		return "Remove"
	case FeatureEntries:
		return "Entries"
	case FeatureStats:
		return "Stats"
	default:
		return "Unknown"
	}
}

// Info describes the state of a history engine. It is a point-in-time
// snapshot; the values are exact only while the engine is not mutated.
type Info struct {
	Records           int                    `json:"records"`
	Chains            int                    `json:"chains"`
	ChainDistribution util.DistributionStats `json:"chain_distribution"`
	HistType          Implementation         `json:"hist_type"`
	SupportedFeatures []Feature              `json:"supported_features"`
	Metadata          interface{}            `json:"metadata"`
}

// --------------------------------------------------------------------------
// Version Record
// --------------------------------------------------------------------------

// Version is one enumerated version record: the value that a handle mapped
// to beginning at StartTime, until superseded by the next record of the
// same handle's chain.
type Version[V any] struct {
	Handle    uint64
	StartTime int64
	Value     V
}

// HistFactory is a function type that creates a new history engine.
// It is used to abstract the engine choice from code that consumes one,
// analogous to a dependency-injected constructor.
type HistFactory[V any] func() IHistory[V]
