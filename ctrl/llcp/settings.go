package llcp

// StaticSettings is a fixed-value Settings implementation.
type StaticSettings struct {
	Company    uint16
	Subversion uint16
	FeatureSet uint64
}

func (s StaticSettings) CompanyID() uint16        { return s.Company }
func (s StaticSettings) SubversionNumber() uint16 { return s.Subversion }
func (s StaticSettings) Features() uint64         { return s.FeatureSet }
