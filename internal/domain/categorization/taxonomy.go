package categorization

// Category names are stable strings, not enums, because the taxonomy is
// configuration data supplied at construction time.
const (
	CategoryIncome        = "Income"
	CategoryMiscellaneous = "Miscellaneous"
)

// CategoryDef is one category with its keyword table and scoped
// subcategory tables. Keyword matching is substring based over lower-cased
// narration text.
type CategoryDef struct {
	Name          string
	Keywords      []string
	Subcategories []SubcategoryDef
}

// SubcategoryDef is a second-level bucket inside one category.
type SubcategoryDef struct {
	Name     string
	Keywords []string
}

// Taxonomy is an ordered category list. Order is load-bearing: categories
// are not mutually exclusive by keyword, and the first category with a hit
// wins.
type Taxonomy []CategoryDef

// incomeKeywords short-circuit everything below them. Narrations carrying
// these are money entering the account regardless of other keyword hits.
var incomeKeywords = []string{
	"salary", "interest", "dividend", "deposit", "credit", "bonus",
	"refund", "cashback", "payment received", "add fund", "neft cr", "imps",
	"reversal", "stipend",
}

// upiCreditWords mark a UPI narration as inbound when paired with "upi".
var upiCreditWords = []string{"received", "credit", "cr", "add", "fund", "deposit"}

// DefaultTaxonomy mirrors the spending buckets of Indian consumer
// statements.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		{
			Name:     "Food & Dining",
			Keywords: []string{"swiggy", "zomato", "restaurant", "cafe", "dominos", "mcdonald", "kfc", "pizza", "eatery", "dhaba", "biryani", "barbeque"},
			Subcategories: []SubcategoryDef{
				{Name: "Delivery", Keywords: []string{"swiggy", "zomato"}},
				{Name: "Dining Out", Keywords: []string{"restaurant", "cafe", "dhaba", "barbeque"}},
			},
		},
		{
			Name:     "Groceries",
			Keywords: []string{"bigbasket", "blinkit", "zepto", "grofers", "dmart", "reliance fresh", "more supermarket", "grocery", "kirana", "instamart"},
		},
		{
			Name:     "Transport",
			Keywords: []string{"uber", "ola", "rapido", "metro", "irctc", "redbus", "petrol", "diesel", "fuel", "fastag", "parking", "indian oil", "hpcl", "bpcl"},
			Subcategories: []SubcategoryDef{
				{Name: "Ride Hailing", Keywords: []string{"uber", "ola", "rapido"}},
				{Name: "Fuel", Keywords: []string{"petrol", "diesel", "fuel", "indian oil", "hpcl", "bpcl"}},
				{Name: "Rail", Keywords: []string{"irctc", "metro"}},
			},
		},
		{
			Name:     "Shopping",
			Keywords: []string{"amazon", "flipkart", "myntra", "ajio", "nykaa", "meesho", "snapdeal", "croma", "reliance digital", "decathlon"},
			Subcategories: []SubcategoryDef{
				{Name: "Online", Keywords: []string{"amazon", "flipkart", "myntra", "ajio", "meesho"}},
				{Name: "Electronics", Keywords: []string{"croma", "reliance digital"}},
			},
		},
		{
			Name:     "Bills & Utilities",
			Keywords: []string{"electricity", "bescom", "tneb", "mseb", "water bill", "gas", "broadband", "airtel", "jio", "vodafone", "bsnl", "recharge", "dth", "postpaid", "bill pay", "billdesk"},
			Subcategories: []SubcategoryDef{
				{Name: "Telecom", Keywords: []string{"airtel", "jio", "vodafone", "bsnl", "recharge", "postpaid"}},
				{Name: "Power", Keywords: []string{"electricity", "bescom", "tneb", "mseb"}},
			},
		},
		{
			Name:     "Entertainment",
			Keywords: []string{"netflix", "hotstar", "prime video", "spotify", "bookmyshow", "pvr", "inox", "gaming", "playstation"},
		},
		{
			Name:     "Health",
			Keywords: []string{"pharmacy", "apollo", "medplus", "hospital", "clinic", "diagnostic", "practo", "1mg", "netmeds", "medical"},
		},
		{
			Name:     "Travel",
			Keywords: []string{"makemytrip", "goibibo", "cleartrip", "oyo", "airbnb", "indigo", "spicejet", "vistara", "air india", "hotel", "yatra"},
		},
		{
			Name:     "Education",
			Keywords: []string{"school", "college", "university", "course", "udemy", "coursera", "byjus", "unacademy", "tuition", "fees"},
		},
		{
			Name:     "Insurance",
			Keywords: []string{"lic", "insurance", "premium", "policybazaar", "hdfc ergo", "icici lombard"},
		},
		{
			Name:     "Investments",
			Keywords: []string{"zerodha", "groww", "upstox", "mutual fund", "sip", "nps", "ppf", "etmoney", "kuvera"},
		},
		{
			Name:     "Rent & Housing",
			Keywords: []string{"rent", "maintenance", "society", "nobroker", "housing"},
		},
		{
			Name:     "Transfers",
			Keywords: []string{"neft", "rtgs", "imps out", "transfer to", "self transfer"},
		},
		{
			Name:     "Cash",
			Keywords: []string{"atm", "cash withdrawal", "atw"},
		},
	}
}
