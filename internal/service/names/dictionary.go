package names

import (
	"strings"
	"sync"
)

// knownFirstNames is the curated dictionary used for segmentation and
// validation. It deliberately skips entries of one letter and entries that
// collide with common role words (no "in", "al" style stubs), because the
// segmenter prefers missing a split over inventing one.
var knownFirstNames = []string{
	// English
	"aaron", "adam", "adrian", "aidan", "alan", "albert", "alex", "alexander",
	"alexandra", "alice", "alison", "amanda", "amber", "amelia", "amy",
	"andrea", "andrew", "angela", "anna", "anne", "annie", "anthony",
	"archie", "arthur", "ashley", "austin", "barbara", "barry", "beatrice",
	"becky", "ben", "benjamin", "bernard", "beth", "betty", "beverley",
	"bill", "billy", "bob", "bobby", "brad", "bradley", "brandon", "brenda",
	"brendan", "brian", "bridget", "bruce", "bryan", "caitlin", "callum",
	"cameron", "carl", "carol", "caroline", "carolyn", "carrie", "catherine",
	"cathy", "cecilia", "charles", "charlie", "charlotte", "cheryl", "chloe",
	"chris", "christian", "christina", "christine", "christopher", "claire",
	"clara", "clare", "clive", "colin", "connor", "craig", "dan", "daniel",
	"danielle", "danny", "darren", "dave", "david", "dawn", "dean", "debbie",
	"deborah", "declan", "denise", "dennis", "derek", "diana", "diane",
	"dominic", "don", "donald", "donna", "dorothy", "doug", "douglas",
	"duncan", "dylan", "eddie", "edward", "eleanor", "elizabeth", "ella",
	"ellen", "ellie", "emily", "emma", "eric", "erin", "ethan", "eugene",
	"eva", "evan", "evelyn", "fiona", "florence", "frances", "francis",
	"frank", "fred", "freddie", "gail", "gareth", "gary", "gavin", "gemma",
	"geoff", "geoffrey", "george", "georgia", "gerald", "gerard", "gillian",
	"glen", "glenn", "gordon", "grace", "graham", "grant", "greg", "gregory",
	"hannah", "harold", "harriet", "harry", "harvey", "hayley", "heather",
	"helen", "henry", "holly", "howard", "hugh", "ian", "imogen", "irene",
	"isaac", "isabel", "isabella", "jack", "jackie", "jacob", "jacqueline",
	"jake", "james", "jamie", "jane", "janet", "janice", "jason", "jean",
	"jeff", "jeffrey", "jenna", "jennifer", "jenny", "jeremy", "jessica",
	"jill", "jim", "jimmy", "joan", "joanna", "joanne", "jodie", "joe",
	"joel", "john", "jonathan", "jordan", "joseph", "josephine", "josh",
	"joshua", "joyce", "judith", "judy", "julia", "julian", "julie", "june",
	"justin", "karen", "kate", "katherine", "kathleen", "kathryn", "katie",
	"kay", "keith", "kelly", "ken", "kenneth", "kevin", "kim", "kimberley",
	"kirsty", "kyle", "laura", "lauren", "lawrence", "leah", "lee", "leon",
	"leonard", "lesley", "leslie", "lewis", "liam", "linda", "lindsay",
	"lisa", "liz", "lloyd", "lois", "lorraine", "louis", "louise", "lucas",
	"lucy", "luke", "lydia", "lynn", "lynne", "maggie", "malcolm", "mandy",
	"marc", "marcus", "margaret", "maria", "marian", "marie", "marilyn",
	"marion", "mark", "martin", "martha", "mary", "mathew", "matt",
	"matthew", "maureen", "max", "megan", "melanie", "melissa", "michael",
	"michelle", "mike", "molly", "morgan", "nancy", "naomi", "natalie",
	"natasha", "nathan", "neil", "niall", "nicholas", "nick", "nicola",
	"nicole", "nigel", "noah", "nora", "norman", "oliver", "olivia", "oscar",
	"owen", "paige", "pam", "pamela", "pat", "patricia", "patrick", "paul",
	"paula", "pauline", "penny", "pete", "peter", "phil", "philip",
	"phillip", "phoebe", "poppy", "rachael", "rachel", "ralph", "raymond",
	"rebecca", "rhys", "richard", "rick", "rita", "rob", "robert", "robin",
	"rod", "rodney", "roger", "ronald", "rory", "rosa", "rose", "rosemary",
	"ross", "roy", "ruby", "russell", "ruth", "ryan", "sally", "sam",
	"samantha", "samuel", "sandra", "sara", "sarah", "scott", "sean",
	"sebastian", "shane", "shannon", "sharon", "shaun", "sheila", "shirley",
	"simon", "sophie", "spencer", "stacey", "stan", "stanley", "stephanie",
	"stephen", "steve", "steven", "stewart", "stuart", "sue", "susan",
	"suzanne", "sylvia", "tanya", "tara", "ted", "teresa", "terry", "thomas",
	"tim", "timothy", "tina", "toby", "todd", "tom", "tony", "tracey",
	"tracy", "trevor", "tristan", "tyler", "valerie", "vanessa", "vera",
	"vicky", "victor", "victoria", "vincent", "violet", "virginia", "wayne",
	"wendy", "will", "william", "yvonne", "zachary", "zoe",
	// European
	"alessandro", "andrei", "aneta", "antonio", "carlos", "diego", "dimitri",
	"elena", "enrique", "fernando", "francesca", "giovanni", "giulia",
	"hans", "ingrid", "ivan", "javier", "jorge", "jose", "juan", "katarzyna",
	"klaus", "lars", "luca", "luis", "magda", "marco", "marta", "mateusz",
	"miguel", "mikhail", "natalia", "olga", "pablo", "paolo", "pedro",
	"petra", "pierre", "piotr", "raul", "ricardo", "roberto", "sergei",
	"sofia", "stefan", "sven", "tatiana", "tomasz", "viktor", "wojciech",
	// South and East Asian
	"aarav", "aditya", "akira", "amit", "ananya", "anil", "anjali", "arjun",
	"deepak", "hiro", "jin", "kavita", "kenji", "krishna", "lakshmi", "mei",
	"ming", "neha", "nikhil", "pooja", "priya", "rahul", "raj", "rajesh",
	"ravi", "rohan", "sanjay", "suresh", "takashi", "vijay", "vikram",
	"wei", "yuki",
	// Middle Eastern and African
	"abdul", "ahmed", "ali", "amina", "ayesha", "fatima", "hassan",
	"ibrahim", "khalid", "kwame", "layla", "mohammed", "mustafa", "omar",
	"rashid", "samir", "tariq", "yusuf", "zainab",
}

var (
	dictOnce   sync.Once
	dictSet    map[string]struct{}
	maxNameLen int
)

func buildDictionary() {
	dictSet = make(map[string]struct{}, len(knownFirstNames))
	for _, name := range knownFirstNames {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		dictSet[name] = struct{}{}
		if len(name) > maxNameLen {
			maxNameLen = len(name)
		}
	}
}

// IsKnownFirstName reports whether the dictionary contains the given name.
func IsKnownFirstName(name string) bool {
	dictOnce.Do(buildDictionary)
	_, ok := dictSet[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// DictionarySize returns the number of distinct dictionary entries.
func DictionarySize() int {
	dictOnce.Do(buildDictionary)
	return len(dictSet)
}
