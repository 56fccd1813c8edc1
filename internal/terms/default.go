package terms

// defaultCategories is the built-in job-title table.
// Phrases are lowercase and must not contain a location preposition as a standalone word.
var defaultCategories = map[string][]string{
	"sales": {
		"sales executive", "sales representative", "sales manager", "sales officer",
		"sales agent", "salesperson", "sales associate", "business development officer",
	},
	"marketing": {
		"marketing executive", "marketing manager", "marketing officer",
		"digital marketer", "brand ambassador", "social media manager",
	},
	"accounting": {
		"accountant", "accounts officer", "auditor", "bookkeeper", "finance officer", "tax consultant",
	},
	"software_development": {
		"software developer", "software engineer", "web developer", "frontend developer",
		"backend developer", "full stack developer", "mobile developer", "programmer",
		"devops engineer", "qa engineer",
	},
	"it_support": {
		"it support", "it technician", "network administrator", "system administrator", "help desk",
	},
	"data": {
		"data analyst", "data scientist", "data entry clerk", "database administrator",
	},
	"healthcare": {
		"nurse", "midwife", "doctor", "pharmacist", "lab technician", "caregiver", "physician assistant",
	},
	"education": {
		"teacher", "tutor", "lecturer", "teaching assistant", "headmaster", "instructor",
	},
	"customer_service": {
		"customer service", "customer care", "call center agent", "receptionist", "front desk",
	},
	"administration": {
		"administrative assistant", "office assistant", "secretary", "office manager", "personal assistant",
	},
	"human_resources": {
		"hr officer", "hr manager", "recruiter", "human resources",
	},
	"logistics": {
		"logistics officer", "warehouse supervisor", "storekeeper", "supply chain", "procurement officer", "fleet manager",
	},
	"driving": {
		"driver", "dispatch rider", "truck driver", "delivery rider", "chauffeur", "forklift operator",
	},
	"hospitality": {
		"chef", "cook", "waiter", "waitress", "housekeeper", "hotel manager", "bartender", "kitchen assistant",
	},
	"construction": {
		"mason", "carpenter", "electrician", "plumber", "welder", "site engineer", "painter",
	},
	"engineering": {
		"civil engineer", "mechanical engineer", "electrical engineer", "mechanic", "technician",
	},
	"security": {
		"security guard", "security officer", "watchman",
	},
	"cleaning": {
		"cleaner", "janitor", "cleaning staff", "laundry attendant",
	},
	"banking": {
		"bank teller", "cashier", "loan officer", "mobile money agent", "relationship manager",
	},
	"design": {
		"graphic designer", "ui designer", "ux designer", "fashion designer", "interior designer",
	},
	"media": {
		"journalist", "content writer", "video editor", "photographer", "copywriter", "radio presenter",
	},
	"agriculture": {
		"farm manager", "farmer", "agronomist", "farm hand", "poultry attendant",
	},
	"legal": {
		"lawyer", "legal officer", "paralegal", "legal assistant",
	},
	"beauty": {
		"hairdresser", "barber", "beautician", "makeup artist", "nail technician",
	},
	"retail": {
		"shop attendant", "shop assistant", "store manager", "merchandiser", "supermarket attendant",
	},
	"manufacturing": {
		"machine operator", "production supervisor", "factory worker", "quality control",
	},
	"domestic": {
		"nanny", "house help", "gardener", "babysitter",
	},
}
