// Package romaji segments kana text into input chunks and enumerates the
// Latin spellings that may be typed for each chunk.
package romaji

// Kana units with bespoke candidate rules.
const (
	Nasal    = "ん"
	Geminate = "っ"
)

// table maps a kana unit (one or two characters) to its accepted spellings.
// Order only matters as the tie-break between spellings of equal length.
var table = map[string][]string{
	// a-row
	"あ":  {"a"},
	"い":  {"i", "yi"},
	"う":  {"u", "wu", "whu"},
	"え":  {"e"},
	"お":  {"o"},
	"うぁ": {"wha"},
	"うぃ": {"whi", "wi"},
	"うぇ": {"whe", "we"},
	"うぉ": {"who"},
	"ぁ":  {"la", "xa"},
	"ぃ":  {"li", "xi", "lyi", "xyi"},
	"ぅ":  {"lu", "xu"},
	"ぇ":  {"le", "xe", "lye", "xye"},
	"ぉ":  {"lo", "xo"},
	"いぇ": {"ye"},
	// ka-row
	"か":  {"ka", "ca"},
	"き":  {"ki"},
	"く":  {"ku", "cu", "qu"},
	"け":  {"ke"},
	"こ":  {"ko", "co"},
	"きゃ": {"kya"},
	"きぃ": {"kyi"},
	"きゅ": {"kyu"},
	"きぇ": {"kye"},
	"きょ": {"kyo"},
	"くぁ": {"qa", "kwa"},
	"くぃ": {"qi"},
	"くぇ": {"qe"},
	"くぉ": {"qo"},
	"が":  {"ga"},
	"ぎ":  {"gi"},
	"ぐ":  {"gu"},
	"げ":  {"ge"},
	"ご":  {"go"},
	"ぎゃ": {"gya"},
	"ぎぃ": {"gyi"},
	"ぎゅ": {"gyu"},
	"ぎぇ": {"gye"},
	"ぎょ": {"gyo"},
	"ぐぁ": {"gwa"},
	"ぐぃ": {"gwi"},
	"ぐぅ": {"gwu"},
	"ぐぇ": {"gwe"},
	"ぐぉ": {"gwo"},
	// sa-row
	"さ":  {"sa"},
	"し":  {"si", "ci", "shi"},
	"す":  {"su"},
	"せ":  {"se", "ce"},
	"そ":  {"so"},
	"しゃ": {"sya", "sha"},
	"しぃ": {"syi"},
	"しゅ": {"syu", "shu"},
	"しぇ": {"sye", "she"},
	"しょ": {"syo", "sho"},
	"ざ":  {"za"},
	"じ":  {"zi", "ji"},
	"ず":  {"zu"},
	"ぜ":  {"ze"},
	"ぞ":  {"zo"},
	"じゃ": {"zya", "ja", "jya"},
	"じぃ": {"zyi", "jyi"},
	"じゅ": {"zyu", "ju", "jyu"},
	"じぇ": {"zye", "je", "jye"},
	"じょ": {"zyo", "jo", "jyo"},
	// ta-row
	"た":  {"ta"},
	"ち":  {"ti", "chi"},
	"つ":  {"tu", "tsu"},
	"て":  {"te"},
	"と":  {"to"},
	"ちゃ": {"tya", "cha", "cya"},
	"ちぃ": {"tyi", "cyi"},
	"ちゅ": {"tyu", "chu", "cyu"},
	"ちぇ": {"tye", "che", "cye"},
	"ちょ": {"tyo", "cho", "cyo"},
	"つぁ": {"tsa"},
	"つぃ": {"tsi"},
	"つぇ": {"tse"},
	"つぉ": {"tso"},
	"てゃ": {"tha"},
	"てぃ": {"thi"},
	"てゅ": {"thu"},
	"てぇ": {"the"},
	"てょ": {"tho"},
	"とぁ": {"twa"},
	"とぃ": {"twi"},
	"とぅ": {"twu"},
	"とぇ": {"twe"},
	"とぉ": {"two"},
	"だ":  {"da"},
	"ぢ":  {"di"},
	"づ":  {"du"},
	"で":  {"de"},
	"ど":  {"do"},
	"ぢゃ": {"dya"},
	"ぢぃ": {"dyi"},
	"ぢゅ": {"dyu"},
	"ぢぇ": {"dye"},
	"ぢょ": {"dyo"},
	"でゃ": {"dha"},
	"でぃ": {"dhi"},
	"でゅ": {"dhu"},
	"でぇ": {"dhe"},
	"でょ": {"dho"},
	"どぁ": {"dwa"},
	"どぃ": {"dwi"},
	"どぅ": {"dwu"},
	"どぇ": {"dwe"},
	"どぉ": {"dwo"},
	"っ":  {"ltu", "xtu", "ltsu"},
	// na-row
	"な":  {"na"},
	"に":  {"ni"},
	"ぬ":  {"nu"},
	"ね":  {"ne"},
	"の":  {"no"},
	"にゃ": {"nya"},
	"にぃ": {"nyi"},
	"にゅ": {"nyu"},
	"にぇ": {"nye"},
	"にょ": {"nyo"},
	// ha-row
	"は":  {"ha"},
	"ひ":  {"hi"},
	"ふ":  {"hu", "fu"},
	"へ":  {"he"},
	"ほ":  {"ho"},
	"ひゃ": {"hya"},
	"ひぃ": {"hyi"},
	"ひゅ": {"hyu"},
	"ひぇ": {"hye"},
	"ひょ": {"hyo"},
	"ふぁ": {"fa"},
	"ふぃ": {"fi"},
	"ふぇ": {"fe"},
	"ふぉ": {"fo"},
	"ふゃ": {"fya"},
	"ふゅ": {"fyu"},
	"ふょ": {"fyo"},
	"ば":  {"ba"},
	"び":  {"bi"},
	"ぶ":  {"bu"},
	"べ":  {"be"},
	"ぼ":  {"bo"},
	"びゃ": {"bya"},
	"びぃ": {"byi"},
	"びゅ": {"byu"},
	"びぇ": {"bye"},
	"びょ": {"byo"},
	"ゔぁ": {"va"},
	"ゔぃ": {"vi", "vyi"},
	"ゔ":  {"vu"},
	"ゔぇ": {"ve", "vye"},
	"ゔぉ": {"vo"},
	"ゔゃ": {"vya"},
	"ゔゅ": {"vyu"},
	"ゔょ": {"vyo"},
	"ぱ":  {"pa"},
	"ぴ":  {"pi"},
	"ぷ":  {"pu"},
	"ぺ":  {"pe"},
	"ぽ":  {"po"},
	"ぴゃ": {"pya"},
	"ぴぃ": {"pyi"},
	"ぴゅ": {"pyu"},
	"ぴぇ": {"pye"},
	"ぴょ": {"pyo"},
	// ma-row
	"ま":  {"ma"},
	"み":  {"mi"},
	"む":  {"mu"},
	"め":  {"me"},
	"も":  {"mo"},
	"みゃ": {"mya"},
	"みぃ": {"myi"},
	"みゅ": {"myu"},
	"みぇ": {"mye"},
	"みょ": {"myo"},
	// ya-row
	"や": {"ya"},
	"ゆ": {"yu"},
	"よ": {"yo"},
	"ゃ": {"lya", "xya"},
	"ゅ": {"lyu", "xyu"},
	"ょ": {"lyo", "xyo"},
	// ra-row
	"ら":  {"ra"},
	"り":  {"ri"},
	"る":  {"ru"},
	"れ":  {"re"},
	"ろ":  {"ro"},
	"りゃ": {"rya"},
	"りぃ": {"ryi"},
	"りゅ": {"ryu"},
	"りぇ": {"rye"},
	"りょ": {"ryo"},
	// wa-row
	"わ": {"wa"},
	"を": {"wo"},
	"ん": {"n", "nn", "xn"},
	"ゎ": {"lwa", "xwa"},
	// full-width symbols
	"　": {" "},
	"！": {"!"},
	"”": {"\""},
	"＃": {"#"},
	"＄": {"$"},
	"％": {"%"},
	"＆": {"&"},
	"’": {"'"},
	"（": {"("},
	"）": {")"},
	"＊": {"*"},
	"＋": {"+"},
	"、": {","},
	"ー": {"-"},
	"。": {"."},
	"・": {"/"},
	"／": {"/"},
	"：": {":"},
	"；": {";"},
	"＜": {"<"},
	"＝": {"="},
	"＞": {">"},
	"？": {"?"},
	"＠": {"@"},
	"「": {"["},
	"￥": {"\\"},
	"」": {"]"},
	"＾": {"^"},
	"＿": {"_"},
	"｀": {"`"},
	"｛": {"{"},
	"｜": {"|"},
	"｝": {"}"},
	"〜": {"~"},
}

// Spellings returns the table spellings for a kana unit. The returned slice
// must not be modified.
func Spellings(unit string) ([]string, bool) {
	s, ok := table[unit]
	return s, ok
}

// IsPrintableASCII reports whether r lies in the space..tilde range.
func IsPrintableASCII(r rune) bool {
	return r >= 0x20 && r <= 0x7e
}
