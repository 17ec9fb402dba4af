// core/so/variation.go
package so

import "regexp"

// Ensembl allele strings such as "A/G", "-/CT" or "CNV_PROBE".
var (
	reSNP          = regexp.MustCompile(`^[ACGT]/[ACGT]$`)
	reInsertion    = regexp.MustCompile(`^(-/[ACGT]+|-/\(LARGEINSERTION\))$`)
	reDeletion     = regexp.MustCompile(`^[ACGT]+/-$`)
	reSubstitution = regexp.MustCompile(`^[ACGT]+/[ACGT]+$`)
	reAlteration   = regexp.MustCompile(`^([ACGT]*|-)/([ACGT]*|-)/([ACGT]*|-)`)
)

// Variation2SO maps an Ensembl variation allele string onto an SO term name.
// The empty string means no mapping applies.
func Variation2SO(allele string) string {
	switch {
	case allele == "":
		return ""
	case allele == "CNV_PROBE":
		return "copy_number_variation"
	case reAlteration.MatchString(allele):
		return "sequence_alteration"
	case reInsertion.MatchString(allele):
		return "insertion"
	case reDeletion.MatchString(allele):
		return "deletion"
	case reSNP.MatchString(allele):
		return "SNP"
	case reSubstitution.MatchString(allele):
		return "substitution"
	}
	return ""
}
