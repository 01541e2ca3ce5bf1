package param

import "time"

// ParameterType is the value type of a stored parameter.
type ParameterType string

const (
	ParameterTypeString       ParameterType = "String"
	ParameterTypeStringList   ParameterType = "StringList"
	ParameterTypeSecureString ParameterType = "SecureString"
)

// ParameterTier determines the storage limits that apply to a parameter.
type ParameterTier string

const (
	ParameterTierStandard ParameterTier = "Standard"
	ParameterTierAdvanced ParameterTier = "Advanced"
)

// Parameter is a full parameter record, including its value. Returned by
// get-parameters-by-path and single-parameter lookups.
type Parameter struct {
	Name             string            `json:"Name"`
	Type             ParameterType     `json:"Type"`
	Value            string            `json:"Value"`
	Version          int64             `json:"Version"`
	Tier             ParameterTier     `json:"Tier,omitempty"`
	DataType         string            `json:"DataType,omitempty"`
	KeyID            string            `json:"KeyId,omitempty"`
	Labels           []string          `json:"Labels,omitempty"`
	Tags             map[string]string `json:"Tags,omitempty"`
	LastModifiedDate time.Time         `json:"LastModifiedDate"`
}

// ParameterMetadata is the describe-parameters projection of a parameter. It
// carries everything except the value.
type ParameterMetadata struct {
	Name             string        `json:"Name"`
	Type             ParameterType `json:"Type"`
	Version          int64         `json:"Version"`
	Tier             ParameterTier `json:"Tier,omitempty"`
	DataType         string        `json:"DataType,omitempty"`
	KeyID            string        `json:"KeyId,omitempty"`
	Description      string        `json:"Description,omitempty"`
	Labels           []string      `json:"Labels,omitempty"`
	LastModifiedDate time.Time     `json:"LastModifiedDate"`
}

// Metadata strips the value from a parameter record.
func (p *Parameter) Metadata() ParameterMetadata {
	return ParameterMetadata{
		Name:             p.Name,
		Type:             p.Type,
		Version:          p.Version,
		Tier:             p.Tier,
		DataType:         p.DataType,
		KeyID:            p.KeyID,
		Labels:           p.Labels,
		LastModifiedDate: p.LastModifiedDate,
	}
}
