package zpy

import (
	"strings"
	"testing"
)

func Test_Builtin_JsonParse(t *testing.T) {
	src := `d = json_parse("{\"n\": 3, \"xs\": [1, 2.5], \"ok\": true, \"nil\": null}")
d["n"] + d["xs"][0]
`
	wantInt(t, evalSrc(t, src), 4)
	wantFloat(t, evalSrc(t, `json_parse("[1.5]")[0]`+"\n"), 1.5)
	wantNone(t, evalSrc(t, `json_parse("{\"x\": null}")["x"]`+"\n"))
	if evalErr(t, `json_parse("{oops")`+"\n").Kind != ErrBuiltin {
		t.Fatal("want BuiltinError for bad JSON")
	}
}

func Test_Builtin_JsonParseObjectKeysAreSorted(t *testing.T) {
	src := `d = json_parse("{\"b\": 1, \"a\": 2}")
keys = ""
for k in d:
    keys += k
keys
`
	wantStr(t, evalSrc(t, src), "ab")
}

func Test_Builtin_JsonNumbersKeepIntness(t *testing.T) {
	wantStr(t, evalSrc(t, `type(json_parse("7"))`+"\n"), "int")
	wantStr(t, evalSrc(t, `type(json_parse("7.0"))`+"\n"), "float")
}

func Test_Builtin_JsonDump(t *testing.T) {
	wantStr(t, evalSrc(t, `json_dump([1, "a", none])`+"\n"), `[1,"a",null]`)
	got := evalSrc(t, `json_dump({"k": 1})`+"\n")
	wantStr(t, got, `{"k":1}`)
	if evalErr(t, "def f():\n    pass\njson_dump([f])\n").Kind != ErrBuiltin {
		t.Fatal("functions should not serialize")
	}
}

func Test_Builtin_JsonRoundTrip(t *testing.T) {
	src := `orig = {"a": [1, 2], "b": "x"}
back = json_parse(json_dump(orig))
back["a"][1] + back["b"].find("x")
`
	wantInt(t, evalSrc(t, src), 2)
}

func Test_Builtin_YamlParse(t *testing.T) {
	src := "doc = yaml_parse(\"name: demo\\ncount: 3\\nitems:\\n  - a\\n  - b\\n\")\n" +
		"doc[\"count\"] + len(doc[\"items\"])\n"
	wantInt(t, evalSrc(t, src), 5)
}

func Test_Builtin_YamlDump(t *testing.T) {
	v := evalSrc(t, `yaml_dump({"n": 1})`+"\n")
	if v.Tag != VTStr || !strings.Contains(v.Data.(string), "n: 1") {
		t.Fatalf("got %#v", v)
	}
}

func Test_Builtin_CsvParse(t *testing.T) {
	src := "rows = csv_parse(\"a,b\\n1,2\\n\")\nrows[1][0]\n"
	wantStr(t, evalSrc(t, src), "1")
	wantInt(t, evalSrc(t, "len(csv_parse(\"a,b\\nc\\n\"))\n"), 2)
}

func Test_Builtin_CsvDump(t *testing.T) {
	src := `csv_dump([["a", "b"], [1, 2]])` + "\n"
	wantStr(t, evalSrc(t, src), "a,b\n1,2\n")
	src2 := `csv_dump([["x,y"]])` + "\n"
	wantStr(t, evalSrc(t, src2), "\"x,y\"\n")
	if evalErr(t, "csv_dump([[[1]]])\n").Kind != ErrBuiltin {
		t.Fatal("nested containers are not cells")
	}
}

func Test_Builtin_CsvRoundTrip(t *testing.T) {
	src := `rows = [["h1", "h2"], ["v1", "v2"]]
back = csv_parse(csv_dump(rows))
back[1][1]
`
	wantStr(t, evalSrc(t, src), "v2")
}
