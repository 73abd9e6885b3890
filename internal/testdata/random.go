package testdata

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/krelv/formpilot/internal/resolver"
)

// stateZipCodes maps each US state to zip codes that pass address validation
// for that state, so generated state and zip stay consistent.
var stateZipCodes = map[string][]string{
	"AL": {"35201", "35202", "36101", "36102", "35801", "35802", "36801", "36802", "35401", "35402"},
	"AK": {"99501", "99502", "99503", "99504", "99701", "99702", "99801", "99802", "99901", "99902"},
	"AZ": {"85001", "85002", "85003", "85004", "85301", "85302", "85701", "85702", "86001", "86002"},
	"AR": {"72201", "72202", "72701", "72702", "71801", "71802", "72301", "72302", "71901", "71902"},
	"CA": {"90210", "90211", "94102", "94103", "94104", "91201", "90401", "92101", "95014", "94301"},
	"CO": {"80201", "80202", "80301", "80302", "80901", "80902", "81501", "81502", "80601", "80602"},
	"CT": {"06101", "06102", "06103", "06511", "06512", "06701", "06702", "06801", "06802", "06901"},
	"DE": {"19901", "19902", "19701", "19702", "19801", "19802", "19803", "19804", "19805", "19806"},
	"FL": {"33101", "33102", "32801", "32802", "33301", "34101", "33401", "32701", "33701", "33801"},
	"GA": {"30301", "30302", "30303", "31401", "31501", "30901", "31201", "30501", "39901", "31701"},
	"HI": {"96801", "96802", "96803", "96701", "96702", "96806", "96813", "96814", "96815", "96816"},
	"ID": {"83701", "83702", "83201", "83202", "83301", "83302", "83401", "83402", "83501", "83502"},
	"IL": {"60601", "60602", "60603", "60604", "60605", "60201", "61801", "62701", "61101", "60901"},
	"IN": {"46201", "46202", "46801", "46802", "47701", "47702", "46901", "46902", "47601", "47602"},
	"IA": {"50301", "50302", "52401", "52402", "51501", "51502", "50701", "50702", "52801", "52802"},
	"KS": {"66101", "66102", "67201", "67202", "67501", "67502", "66801", "66802", "67401", "67402"},
	"KY": {"40201", "40202", "40501", "40502", "42101", "42102", "41001", "41002", "42301", "42302"},
	"LA": {"70112", "70113", "70801", "70802", "71101", "71102", "70501", "70502", "71201", "71202"},
	"ME": {"04101", "04102", "04401", "04402", "04730", "04731", "04901", "04902", "04330", "04331"},
	"MD": {"21201", "21202", "20701", "20702", "21801", "21802", "20901", "20902", "21401", "21402"},
	"MA": {"02101", "02102", "01201", "01202", "01501", "01502", "02301", "02302", "01701", "01702"},
	"MI": {"48201", "48202", "49503", "49504", "48601", "48701", "49001", "48801", "49401", "48901"},
	"MN": {"55101", "55102", "55401", "55402", "55801", "55802", "56001", "56002", "55701", "55702"},
	"MS": {"39201", "39202", "38601", "38602", "39501", "39502", "38801", "38802", "39701", "39702"},
	"MO": {"63101", "63102", "64101", "64102", "65201", "65202", "63701", "63702", "65801", "65802"},
	"MT": {"59101", "59102", "59701", "59702", "59801", "59802", "59901", "59902", "59401", "59402"},
	"NE": {"68101", "68102", "68501", "68502", "69101", "69102", "68801", "68802", "68701", "68702"},
	"NV": {"89101", "89102", "89501", "89502", "89701", "89702", "89801", "89802", "89901", "89902"},
	"NH": {"03101", "03102", "03301", "03302", "03801", "03802", "03431", "03432", "03561", "03562"},
	"NJ": {"07101", "07102", "08901", "08902", "07001", "07002", "08701", "08702", "07601", "07602"},
	"NM": {"87101", "87102", "87501", "87502", "88001", "88002", "87401", "87402", "87301", "87302"},
	"NY": {"10001", "10002", "10003", "10004", "10005", "11201", "11202", "12201", "14201", "13201"},
	"NC": {"27601", "27602", "28201", "28202", "27101", "27401", "28801", "27701", "28501", "27301"},
	"ND": {"58101", "58102", "58501", "58502", "58201", "58202", "58701", "58702", "58801", "58802"},
	"OH": {"44101", "44102", "43201", "43202", "45201", "45202", "44301", "43701", "45801", "44501"},
	"OK": {"73101", "73102", "74101", "74102", "73701", "73702", "74601", "74602", "73401", "73402"},
	"OR": {"97201", "97202", "97301", "97302", "97401", "97402", "97501", "97502", "97701", "97702"},
	"PA": {"19101", "19102", "19103", "15201", "15202", "17101", "18001", "16501", "19401", "19601"},
	"RI": {"02901", "02902", "02840", "02841", "02806", "02807", "02908", "02909", "02919", "02920"},
	"SC": {"29201", "29202", "29401", "29402", "29601", "29602", "29801", "29802", "29501", "29502"},
	"SD": {"57101", "57102", "57701", "57702", "57401", "57402", "57501", "57502", "57601", "57602"},
	"TN": {"37201", "37202", "38101", "38102", "37401", "37402", "37601", "37602", "37801", "37802"},
	"TX": {"75201", "75202", "77001", "77002", "78701", "73301", "79901", "76101", "77401", "75001"},
	"UT": {"84101", "84102", "84601", "84602", "84401", "84402", "84701", "84702", "84501", "84502"},
	"VT": {"05401", "05402", "05601", "05602", "05701", "05702", "05801", "05802", "05901", "05902"},
	"VA": {"23219", "23220", "23501", "23502", "22201", "22202", "24001", "24002", "23101", "23102"},
	"WA": {"98101", "98102", "99201", "99202", "98401", "98402", "98501", "98502", "98601", "98602"},
	"WV": {"25301", "25302", "26101", "26102", "24701", "24702", "25401", "25402", "25801", "25802"},
	"WI": {"53201", "53202", "53701", "53702", "54901", "54902", "53401", "53402", "54301", "54302"},
	"WY": {"82001", "82002", "82601", "82602", "82801", "82802", "82901", "82902", "83001", "83002"},
}

var defaultZipCodes = []string{"90210", "10001", "60601", "30301", "80202"}

// personAge matches the enrollment forms this tool targets, which require a
// Medicare-eligible applicant.
const personAge = 65

// RandomPerson generates a full token set for a random 65 year old person
// without touching the browser. State steers the zip code; an empty or
// unknown state falls back to a generic zip list.
func RandomPerson(state string) resolver.Values {
	values := resolver.Values{
		"firstName": gofakeit.FirstName(),
		"lastName":  gofakeit.LastName(),
		"ssn":       randomSSN(),
		"address":   gofakeit.Address().Street,
		"zipCode":   randomZip(state),
	}
	if state != "" {
		values["state"] = strings.ToUpper(state)
	}
	for k, v := range randomDOB(time.Now()) {
		values[k] = v
	}
	return values
}

// randomSSN produces an SSN-shaped string, avoiding the 000/666/9xx area
// codes and all-zero groups so validators accept it.
func randomSSN() string {
	area := gofakeit.Number(100, 899)
	if area == 666 {
		area = 667
	}
	group := gofakeit.Number(10, 99)
	serial := gofakeit.Number(1000, 9999)
	return fmt.Sprintf("%03d-%02d-%04d", area, group, serial)
}

func randomZip(state string) string {
	if zips, ok := stateZipCodes[strings.ToUpper(state)]; ok {
		return gofakeit.RandomString(zips)
	}
	return gofakeit.RandomString(defaultZipCodes)
}

// randomDOB returns the date of birth of a personAge year old, as the full
// MM/DD/YYYY string plus the individual components some forms split it into.
func randomDOB(now time.Time) resolver.Values {
	year := now.Year() - personAge
	month := gofakeit.Number(1, 12)
	day := gofakeit.Number(1, daysIn(month, year))
	return resolver.Values{
		"dateOfBirth": fmt.Sprintf("%02d/%02d/%d", month, day, year),
		"dobMonth":    fmt.Sprintf("%02d", month),
		"dobDay":      fmt.Sprintf("%02d", day),
		"dobYear":     strconv.Itoa(year),
	}
}

func daysIn(month, year int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
