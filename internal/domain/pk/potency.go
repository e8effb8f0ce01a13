package pk

import "github.com/hrtrack/hrtrack-api/internal/domain"

// Molar masses in g/mol.
const (
	MolarMassE2  = 272.38
	MolarMassEB  = 376.50
	MolarMassEV  = 356.50
	MolarMassEC  = 396.58
	MolarMassEN  = 384.56
	MolarMassCPA = 416.94
)

var molarMass = map[domain.Ester]float64{
	domain.EsterE2:  MolarMassE2,
	domain.EsterEB:  MolarMassEB,
	domain.EsterEV:  MolarMassEV,
	domain.EsterEC:  MolarMassEC,
	domain.EsterEN:  MolarMassEN,
	domain.EsterCPA: MolarMassCPA,
}

// ToE2Factor returns the factor converting administered ester mass into
// estradiol-equivalent mass. Cyproterone acetate is not an estrogen and
// always gets the identity factor, as does any unknown variant.
func ToE2Factor(ester domain.Ester) float64 {
	if ester.IsAntiAndrogen() {
		return 1
	}
	mw, ok := molarMass[ester]
	if !ok {
		return 1
	}
	return MolarMassE2 / mw
}

// MolarMass returns the molar mass of a compound variant in g/mol.
func MolarMass(ester domain.Ester) (float64, bool) {
	mw, ok := molarMass[ester]
	return mw, ok
}

// ConvertToPgPerML converts an estradiol lab value into pg/mL. One pmol of
// estradiol weighs MolarMassE2 pg, so pmol/L scales by MolarMassE2/1000.
func ConvertToPgPerML(value float64, unit domain.LabUnit) float64 {
	if unit == domain.LabUnitPmolPerL {
		return value * MolarMassE2 / 1000
	}
	return value
}

// ConvertFromPgPerML is the inverse of ConvertToPgPerML.
func ConvertFromPgPerML(value float64, unit domain.LabUnit) float64 {
	if unit == domain.LabUnitPmolPerL {
		return value * 1000 / MolarMassE2
	}
	return value
}
