package pharmacy

// Drug is a catalog entry seeded into every branch
type Drug struct {
	Name         string `db:"drug_name"`
	InitialStock int    `db:"current_stock"`
}

var catalog = []Drug{
	// Antibiotics
	{Name: "Amoxicillin", InitialStock: 100},
	{Name: "Azithromycin", InitialStock: 75},
	{Name: "Ciprofloxacin", InitialStock: 50},
	{Name: "Doxycycline", InitialStock: 80},
	{Name: "Penicillin", InitialStock: 120},
	{Name: "Cephalexin", InitialStock: 90},
	{Name: "Metronidazole", InitialStock: 60},
	{Name: "Tetracycline", InitialStock: 70},
	{Name: "Erythromycin", InitialStock: 85},
	{Name: "Clarithromycin", InitialStock: 65},

	// Pain medications
	{Name: "Ibuprofen", InitialStock: 150},
	{Name: "Paracetamol", InitialStock: 200},
	{Name: "Aspirin", InitialStock: 180},
	{Name: "Naproxen", InitialStock: 100},
	{Name: "Diclofenac", InitialStock: 90},
	{Name: "Tramadol", InitialStock: 70},
	{Name: "Codeine", InitialStock: 50},
	{Name: "Morphine", InitialStock: 30},
	{Name: "Oxycodone", InitialStock: 40},
	{Name: "Ketoprofen", InitialStock: 85},

	// Cardiovascular
	{Name: "Amlodipine", InitialStock: 120},
	{Name: "Lisinopril", InitialStock: 100},
	{Name: "Metoprolol", InitialStock: 90},
	{Name: "Atorvastatin", InitialStock: 110},
	{Name: "Warfarin", InitialStock: 70},
	{Name: "Clopidogrel", InitialStock: 80},
	{Name: "Digoxin", InitialStock: 60},
	{Name: "Furosemide", InitialStock: 95},
	{Name: "Verapamil", InitialStock: 75},
	{Name: "Losartan", InitialStock: 85},

	// Respiratory
	{Name: "Salbutamol", InitialStock: 150},
	{Name: "Fluticasone", InitialStock: 100},
	{Name: "Montelukast", InitialStock: 80},
	{Name: "Budesonide", InitialStock: 90},
	{Name: "Ipratropium", InitialStock: 70},
	{Name: "Theophylline", InitialStock: 60},
	{Name: "Salmeterol", InitialStock: 85},
	{Name: "Tiotropium", InitialStock: 75},
	{Name: "Zafirlukast", InitialStock: 65},
	{Name: "Terbutaline", InitialStock: 95},
}

// Catalog returns the reference drug list in seeding order.
// The returned slice is a copy and may be modified by the caller.
func Catalog() []Drug {
	drugs := make([]Drug, len(catalog))
	copy(drugs, catalog)
	return drugs
}
