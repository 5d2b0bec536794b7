package entities

// MedicineInfo is the patient-facing description of a medicine.
type MedicineInfo struct {
	Name         string   `json:"name"`
	GenericClass string   `json:"generic_class,omitempty"`
	Description  string   `json:"description"`
	Uses         []string `json:"uses"`
	SideEffects  []string `json:"side_effects"`
	Warnings     []string `json:"warnings"`
	Source       string   `json:"source"`
	Model        string   `json:"model,omitempty"`
}

const (
	MedicineSourceOpenAI  = "openai"
	MedicineSourceCatalog = "catalog"
	MedicineSourceGeneric = "generic"
)

// MaxMedicineListEntries bounds each list field of MedicineInfo.
const MaxMedicineListEntries = 6

// Trim caps the list fields so a verbose provider cannot bloat responses.
func (m *MedicineInfo) Trim() {
	m.Uses = capList(m.Uses)
	m.SideEffects = capList(m.SideEffects)
	m.Warnings = capList(m.Warnings)
}

func capList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item == "" {
			continue
		}
		out = append(out, item)
		if len(out) == MaxMedicineListEntries {
			break
		}
	}
	return out
}
