package catalog

import (
	"strings"

	"github.com/yab-g4u/IDA-sub000/internal/domain/entities"
)

var essentialMedicines = []entities.MedicineInfo{
	{
		Name:         "Paracetamol",
		GenericClass: "Analgesic / antipyretic",
		Description:  "Relieves mild to moderate pain and lowers fever.",
		Uses:         []string{"Headache", "Fever", "Toothache", "Muscle aches"},
		SideEffects:  []string{"Rarely nausea", "Skin rash in sensitive people"},
		Warnings:     []string{"Do not exceed 4 g per day", "Avoid with heavy alcohol use", "Check combination products for hidden paracetamol"},
	},
	{
		Name:         "Ibuprofen",
		GenericClass: "Non-steroidal anti-inflammatory drug",
		Description:  "Reduces pain, fever and inflammation.",
		Uses:         []string{"Period pain", "Joint and muscle pain", "Fever"},
		SideEffects:  []string{"Stomach upset", "Heartburn", "Dizziness"},
		Warnings:     []string{"Take with food", "Avoid in late pregnancy", "Not for people with stomach ulcers"},
	},
	{
		Name:         "Amoxicillin",
		GenericClass: "Penicillin antibiotic",
		Description:  "Treats bacterial infections such as chest, ear and urinary infections.",
		Uses:         []string{"Chest infections", "Ear infections", "Urinary tract infections"},
		SideEffects:  []string{"Diarrhoea", "Nausea", "Rash"},
		Warnings:     []string{"Do not use if allergic to penicillin", "Finish the full course"},
	},
	{
		Name:         "Artemether/Lumefantrine",
		GenericClass: "Antimalarial combination",
		Description:  "First-line treatment for uncomplicated falciparum malaria.",
		Uses:         []string{"Uncomplicated malaria"},
		SideEffects:  []string{"Headache", "Dizziness", "Loss of appetite"},
		Warnings:     []string{"Take with fatty food or milk", "Complete all six doses"},
	},
	{
		Name:         "Metformin",
		GenericClass: "Biguanide antidiabetic",
		Description:  "Lowers blood sugar in type 2 diabetes.",
		Uses:         []string{"Type 2 diabetes"},
		SideEffects:  []string{"Nausea", "Diarrhoea", "Metallic taste"},
		Warnings:     []string{"Take with meals", "Tell your doctor about kidney problems"},
	},
	{
		Name:         "Amlodipine",
		GenericClass: "Calcium channel blocker",
		Description:  "Lowers blood pressure and prevents chest pain.",
		Uses:         []string{"High blood pressure", "Angina"},
		SideEffects:  []string{"Ankle swelling", "Flushing", "Headache"},
		Warnings:     []string{"Do not stop suddenly without advice"},
	},
	{
		Name:         "Omeprazole",
		GenericClass: "Proton pump inhibitor",
		Description:  "Reduces stomach acid.",
		Uses:         []string{"Heartburn", "Stomach ulcers", "Acid reflux"},
		SideEffects:  []string{"Headache", "Abdominal pain", "Diarrhoea"},
		Warnings:     []string{"Take before breakfast", "Long-term use needs review"},
	},
	{
		Name:         "Ciprofloxacin",
		GenericClass: "Fluoroquinolone antibiotic",
		Description:  "Treats a range of bacterial infections.",
		Uses:         []string{"Urinary tract infections", "Typhoid fever", "Bacterial diarrhoea"},
		SideEffects:  []string{"Nausea", "Dizziness", "Tendon pain"},
		Warnings:     []string{"Avoid dairy and antacids within two hours of a dose", "Not for children unless prescribed"},
	},
	{
		Name:         "Azithromycin",
		GenericClass: "Macrolide antibiotic",
		Description:  "Treats respiratory, skin and some sexually transmitted infections.",
		Uses:         []string{"Chest infections", "Trachoma", "Chlamydia"},
		SideEffects:  []string{"Diarrhoea", "Stomach pain", "Nausea"},
		Warnings:     []string{"Tell your doctor about heart rhythm problems"},
	},
	{
		Name:         "Cetirizine",
		GenericClass: "Antihistamine",
		Description:  "Relieves allergy symptoms.",
		Uses:         []string{"Hay fever", "Itchy skin", "Hives"},
		SideEffects:  []string{"Drowsiness", "Dry mouth"},
		Warnings:     []string{"Avoid driving if drowsy", "Avoid alcohol"},
	},
	{
		Name:         "Salbutamol",
		GenericClass: "Short-acting bronchodilator",
		Description:  "Opens the airways during asthma attacks.",
		Uses:         []string{"Asthma", "Wheezing"},
		SideEffects:  []string{"Shaking", "Fast heartbeat", "Headache"},
		Warnings:     []string{"Seek help if you need it more often than usual"},
	},
	{
		Name:         "Metronidazole",
		GenericClass: "Nitroimidazole antibiotic",
		Description:  "Treats certain bacterial and parasitic infections.",
		Uses:         []string{"Amoebic dysentery", "Giardiasis", "Dental infections"},
		SideEffects:  []string{"Metallic taste", "Nausea", "Dark urine"},
		Warnings:     []string{"No alcohol during treatment and for 48 hours after"},
	},
	{
		Name:         "Oral Rehydration Salts",
		GenericClass: "Electrolyte replacement",
		Description:  "Replaces fluids and salts lost through diarrhoea or vomiting.",
		Uses:         []string{"Dehydration", "Diarrhoea"},
		SideEffects:  []string{"Vomiting if taken too quickly"},
		Warnings:     []string{"Mix with the exact amount of clean water stated"},
	},
	{
		Name:         "Losartan",
		GenericClass: "Angiotensin receptor blocker",
		Description:  "Lowers blood pressure and protects the kidneys in diabetes.",
		Uses:         []string{"High blood pressure", "Diabetic kidney disease"},
		SideEffects:  []string{"Dizziness", "Tiredness"},
		Warnings:     []string{"Not for use in pregnancy"},
	},
	{
		Name:         "Diclofenac",
		GenericClass: "Non-steroidal anti-inflammatory drug",
		Description:  "Relieves pain and swelling.",
		Uses:         []string{"Arthritis", "Back pain", "Sprains"},
		SideEffects:  []string{"Stomach upset", "Headache"},
		Warnings:     []string{"Take with food", "Avoid with heart disease unless advised"},
	},
}

// MedicineCatalog is an ordered, read-only list of medicines with curated
// descriptions.
type MedicineCatalog struct {
	items  []entities.MedicineInfo
	byName map[string]int
}

func NewMedicineCatalog(items []entities.MedicineInfo) *MedicineCatalog {
	c := &MedicineCatalog{byName: make(map[string]int, len(items))}
	for _, item := range items {
		key := strings.ToLower(strings.TrimSpace(item.Name))
		if key == "" {
			continue
		}
		if _, dup := c.byName[key]; dup {
			continue
		}
		c.byName[key] = len(c.items)
		c.items = append(c.items, item)
	}
	return c
}

// DefaultMedicineCatalog returns the built-in essential medicines list.
func DefaultMedicineCatalog() *MedicineCatalog {
	return NewMedicineCatalog(essentialMedicines)
}

func (c *MedicineCatalog) Names() []string {
	names := make([]string, len(c.items))
	for i, item := range c.items {
		names[i] = item.Name
	}
	return names
}

// Lookup returns a copy of the catalog entry for name, tagged with the
// catalog source.
func (c *MedicineCatalog) Lookup(name string) (*entities.MedicineInfo, bool) {
	idx, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, false
	}
	item := c.items[idx]
	info := item
	info.Uses = append([]string(nil), item.Uses...)
	info.SideEffects = append([]string(nil), item.SideEffects...)
	info.Warnings = append([]string(nil), item.Warnings...)
	info.Source = entities.MedicineSourceCatalog
	return &info, true
}
