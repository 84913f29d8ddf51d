package roster

import (
	"github.com/agentstation/rostersync/pkg/constants"
	"github.com/agentstation/rostersync/pkg/errors"
)

// Columns names the report columns mapped onto a RosterRecord. Only Key is
// required to be present in a report.
type Columns struct {
	Key         string `json:"key" yaml:"key" mapstructure:"key"`
	SecondaryID string `json:"secondary_id" yaml:"secondary_id" mapstructure:"secondary_id"`
	FirstName   string `json:"first_name" yaml:"first_name" mapstructure:"first_name"`
	LastName    string `json:"last_name" yaml:"last_name" mapstructure:"last_name"`
}

// DefaultColumns returns the Campus Cafe report column names.
func DefaultColumns() Columns {
	return Columns{
		Key:         constants.ColumnKey,
		SecondaryID: constants.ColumnSecondaryID,
		FirstName:   constants.ColumnFirstName,
		LastName:    constants.ColumnLastName,
	}
}

// WithDefaults fills empty names from DefaultColumns.
func (c Columns) WithDefaults() Columns {
	d := DefaultColumns()
	if c.Key == "" {
		c.Key = d.Key
	}
	if c.SecondaryID == "" {
		c.SecondaryID = d.SecondaryID
	}
	if c.FirstName == "" {
		c.FirstName = d.FirstName
	}
	if c.LastName == "" {
		c.LastName = d.LastName
	}
	return c
}

// Validate requires a key column name.
func (c Columns) Validate() error {
	if c.Key == "" {
		return errors.NewValidationError("columns.key", c.Key, "key column name is required")
	}
	return nil
}
