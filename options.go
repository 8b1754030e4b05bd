package oracleraw

// ItemFormat selects how a row is shaped
type ItemFormat string

const (
	FormatArray ItemFormat = "array"
	FormatHash  ItemFormat = "hash"
)

// Amount selects how many rows are fetched
type Amount string

const (
	AllRows     Amount = "all_rows"
	FirstRow    Amount = "first_row"
	SingleValue Amount = "single_value"
)

// Metadata selects the result envelope
type Metadata string

const (
	MetadataNone  Metadata = "none"
	MetadataPlain Metadata = "plain"
	MetadataAll   Metadata = "all"
)

// Options drive how Query fetches and wraps. An empty field is unset.
type Options struct {
	ItemFormat ItemFormat `mapstructure:"itemFormat" validate:"omitempty,oneof=array hash"`
	Amount     Amount     `mapstructure:"amount" validate:"omitempty,oneof=all_rows first_row single_value"`
	Metadata   Metadata   `mapstructure:"metadata" validate:"omitempty,oneof=none plain all"`
}

// Merge returns o with every field set in override replacing o's value.
// A nil override leaves o untouched.
func (o Options) Merge(override *Options) Options {
	if override == nil {
		return o
	}
	if override.ItemFormat != "" {
		o.ItemFormat = override.ItemFormat
	}
	if override.Amount != "" {
		o.Amount = override.Amount
	}
	if override.Metadata != "" {
		o.Metadata = override.Metadata
	}
	return o
}

// resolved fills the fields still unset with array / all_rows / none
func (o Options) resolved() Options {
	if o.ItemFormat == "" {
		o.ItemFormat = FormatArray
	}
	if o.Amount == "" {
		o.Amount = AllRows
	}
	if o.Metadata == "" {
		o.Metadata = MetadataNone
	}
	return o
}
