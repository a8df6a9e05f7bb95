package names

// titles lists honorifics recognized as a name prefix. Keys are lower-case
// with periods removed; values are the canonical spelling kept in ParsedName.
var titles = map[string]string{
	"mr":        "Mr",
	"mrs":       "Mrs",
	"ms":        "Ms",
	"miss":      "Miss",
	"mx":        "Mx",
	"dr":        "Dr",
	"prof":      "Prof",
	"professor": "Professor",
	"rev":       "Rev",
	"reverend":  "Reverend",
	"fr":        "Fr",
	"father":    "Father",
	"sister":    "Sister",
	"rabbi":     "Rabbi",
	"hon":       "Hon",
	"honorable": "Honorable",
	"judge":     "Judge",
	"sen":       "Sen",
	"senator":   "Senator",
	"rep":       "Rep",
	"gov":       "Gov",
	"mayor":     "Mayor",
	"sir":       "Sir",
	"dame":      "Dame",
	"lady":      "Lady",
	"lord":      "Lord",
	"gen":       "Gen",
	"col":       "Col",
	"maj":       "Maj",
	"capt":      "Capt",
	"lt":        "Lt",
	"sgt":       "Sgt",
	"adm":       "Adm",
}

// compoundTitles lists two-token prefixes, keyed by their lower-case,
// period-free, space-joined form.
var compoundTitles = map[string]string{
	"the honorable": "The Honorable",
	"the hon":       "The Hon",
	"the rev":       "The Rev",
	"the reverend":  "The Reverend",
	"rt hon":        "Rt Hon",
	"very rev":      "Very Rev",
	"rev dr":        "Rev Dr",
	"lt col":        "Lt Col",
	"lt gen":        "Lt Gen",
	"maj gen":       "Maj Gen",
	"brig gen":      "Brig Gen",
}

// suffixes lists generational suffixes and post-nominal credentials.
var suffixes = map[string]string{
	"jr":   "Jr",
	"sr":   "Sr",
	"ii":   "II",
	"iii":  "III",
	"iv":   "IV",
	"v":    "V",
	"phd":  "PhD",
	"md":   "MD",
	"jd":   "JD",
	"edd":  "EdD",
	"esq":  "Esq",
	"cpa":  "CPA",
	"mba":  "MBA",
	"dds":  "DDS",
	"dmd":  "DMD",
	"rn":   "RN",
	"cfa":  "CFA",
	"cfre": "CFRE",
	"dvm":  "DVM",
	"lcsw": "LCSW",
	"msw":  "MSW",
	"mph":  "MPH",
	"pe":   "PE",
	"ret":  "Ret",
}

// compoundSuffixes lists two-token suffixes such as "Ph. D.".
var compoundSuffixes = map[string]string{
	"ph d": "PhD",
	"ed d": "EdD",
	"m d":  "MD",
	"j d":  "JD",
}

// defaultNicknames maps common diminutives to a canonical given name.
var defaultNicknames = map[string]string{
	"al":     "albert",
	"alex":   "alexander",
	"andy":   "andrew",
	"ben":    "benjamin",
	"beth":   "elizabeth",
	"betty":  "elizabeth",
	"bill":   "william",
	"billy":  "william",
	"bob":    "robert",
	"bobby":  "robert",
	"cathy":  "catherine",
	"chris":  "christopher",
	"chuck":  "charles",
	"dan":    "daniel",
	"danny":  "daniel",
	"dave":   "david",
	"deb":    "deborah",
	"debbie": "deborah",
	"dick":   "richard",
	"don":    "donald",
	"ed":     "edward",
	"eddie":  "edward",
	"fred":   "frederick",
	"greg":   "gregory",
	"jack":   "john",
	"jeff":   "jeffrey",
	"jen":    "jennifer",
	"jenny":  "jennifer",
	"jim":    "james",
	"jimmy":  "james",
	"joe":    "joseph",
	"johnny": "john",
	"jon":    "jonathan",
	"kate":   "katherine",
	"kathy":  "katherine",
	"katie":  "katherine",
	"ken":    "kenneth",
	"larry":  "lawrence",
	"liz":    "elizabeth",
	"maggie": "margaret",
	"matt":   "matthew",
	"meg":    "margaret",
	"mike":   "michael",
	"nick":   "nicholas",
	"pat":    "patricia",
	"patty":  "patricia",
	"peggy":  "margaret",
	"pete":   "peter",
	"phil":   "philip",
	"rich":   "richard",
	"rick":   "richard",
	"rob":    "robert",
	"ron":    "ronald",
	"sam":    "samuel",
	"steve":  "stephen",
	"sue":    "susan",
	"susie":  "susan",
	"ted":    "theodore",
	"tim":    "timothy",
	"tom":    "thomas",
	"tommy":  "thomas",
	"tony":   "anthony",
	"vicky":  "victoria",
	"will":   "william",
}
