package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves localized messages for Issue codes.
// data provides values substituted into {name} placeholders (for example,
// "ge" or "pattern").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"int_type":                "Input should be a valid integer",
		"int_parsing":             "Input should be a valid integer, unable to parse string as an integer",
		"float_type":              "Input should be a valid number",
		"float_parsing":           "Input should be a valid number, unable to parse string as a number",
		"finite_number":           "Input should be a finite number",
		"string_type":             "Input should be a valid string",
		"bool_type":               "Input should be a valid boolean",
		"bool_parsing":            "Input should be a valid boolean, unable to interpret input",
		"list_type":               "Input should be a valid list",
		"dict_type":               "Input should be a valid dictionary",
		"model_type":              "Input should be a valid mapping",
		"missing":                 "Field required",
		"extra_forbidden":         "Extra inputs are not permitted",
		"greater_than":            "Input should be greater than {gt}",
		"greater_than_equal":      "Input should be greater than or equal to {ge}",
		"less_than":               "Input should be less than {lt}",
		"less_than_equal":         "Input should be less than or equal to {le}",
		"multiple_of":             "Input should be a multiple of {multiple_of}",
		"too_short":               "Input should have at least {min} {unit}",
		"too_long":                "Input should have at most {max} {unit}",
		"string_pattern_mismatch": "String should match pattern '{pattern}'",
		"union_no_match":          "Input did not match any union member",
	},
	"ja": {
		"int_type":                "整数である必要があります",
		"int_parsing":             "整数として解釈できません",
		"float_type":              "数値である必要があります",
		"float_parsing":           "数値として解釈できません",
		"finite_number":           "有限の数値である必要があります",
		"string_type":             "文字列である必要があります",
		"bool_type":               "真偽値である必要があります",
		"bool_parsing":            "真偽値として解釈できません",
		"list_type":               "配列である必要があります",
		"dict_type":               "辞書である必要があります",
		"model_type":              "オブジェクトである必要があります",
		"missing":                 "必須プロパティが不足しています",
		"extra_forbidden":         "未知のキーです",
		"greater_than":            "{gt} より大きい必要があります",
		"greater_than_equal":      "{ge} 以上である必要があります",
		"less_than":               "{lt} 未満である必要があります",
		"less_than_equal":         "{le} 以下である必要があります",
		"multiple_of":             "{multiple_of} の倍数である必要があります",
		"too_short":               "短すぎます (最小 {min})",
		"too_long":                "長すぎます (最大 {max})",
		"string_pattern_mismatch": "パターン '{pattern}' に一致しません",
		"union_no_match":          "どのユニオン候補にも一致しません",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := dictionaries[t.lang][code]
	if !ok {
		return code
	}
	return fill(msg, data)
}

func fill(msg string, data map[string]string) string {
	if len(data) == 0 || !strings.Contains(msg, "{") {
		return msg
	}
	pairs := make([]string, 0, 2*len(data))
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	SetTranslator(dictTranslator{lang: lang})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
