package zpy

import (
	"strings"
	"testing"
)

// --- helpers ---------------------------------------------------------------

func evalSrc(t *testing.T, src string) Value {
	t.Helper()
	ip := NewInterpreter()
	v, err := ip.EvalSource(src)
	if err != nil {
		t.Fatalf("EvalSource error: %v\nsource:\n%s", err, src)
	}
	return v
}

func evalErr(t *testing.T, src string) *Error {
	t.Helper()
	ip := NewInterpreter()
	_, err := ip.EvalSource(src)
	if err == nil {
		t.Fatalf("want a runtime error, got none\nsource:\n%s", src)
	}
	re, ok := err.(*Error)
	if !ok {
		t.Fatalf("want *Error, got %T: %v", err, err)
	}
	return re
}

func wantInt(t *testing.T, v Value, n int64) {
	t.Helper()
	if v.Tag != VTInt || v.Data.(int64) != n {
		t.Fatalf("want int %d, got %#v", n, v)
	}
}

func wantFloat(t *testing.T, v Value, f float64) {
	t.Helper()
	if v.Tag != VTFloat || v.Data.(float64) != f {
		t.Fatalf("want float %g, got %#v", f, v)
	}
}

func wantStr(t *testing.T, v Value, s string) {
	t.Helper()
	if v.Tag != VTStr || v.Data.(string) != s {
		t.Fatalf("want str %q, got %#v", s, v)
	}
}

func wantBool(t *testing.T, v Value, b bool) {
	t.Helper()
	if v.Tag != VTBool || v.Data.(bool) != b {
		t.Fatalf("want bool %v, got %#v", b, v)
	}
}

func wantNone(t *testing.T, v Value) {
	t.Helper()
	if v.Tag != VTNone {
		t.Fatalf("want none, got %#v", v)
	}
}

// --- arithmetic ------------------------------------------------------------

func Test_Interp_Precedence(t *testing.T) {
	wantInt(t, evalSrc(t, "5 + 3 * 2\n"), 11)
}

func Test_Interp_IntDivisionTruncates(t *testing.T) {
	wantInt(t, evalSrc(t, "15 / 4\n"), 3)
	wantInt(t, evalSrc(t, "-7 / 2\n"), -3)
}

func Test_Interp_FloatContagion(t *testing.T) {
	wantFloat(t, evalSrc(t, "15 / 4.0\n"), 3.75)
	wantFloat(t, evalSrc(t, "1 + 2.5\n"), 3.5)
}

func Test_Interp_Modulo(t *testing.T) {
	wantInt(t, evalSrc(t, "7 % 3\n"), 1)
	wantInt(t, evalSrc(t, "-7 % 3\n"), -1)
}

func Test_Interp_DivisionByZero(t *testing.T) {
	if evalErr(t, "1 / 0\n").Kind != ErrDivisionByZero {
		t.Fatal("want DivisionByZero")
	}
	if evalErr(t, "1.0 / 0\n").Kind != ErrDivisionByZero {
		t.Fatal("want DivisionByZero for float divisor zero")
	}
	if evalErr(t, "5 % 0\n").Kind != ErrDivisionByZero {
		t.Fatal("want DivisionByZero for modulo")
	}
}

func Test_Interp_StringConcatAndRepeat(t *testing.T) {
	wantStr(t, evalSrc(t, `"ab" + "cd"`+"\n"), "abcd")
	wantStr(t, evalSrc(t, `"ab" * 3`+"\n"), "ababab")
	wantStr(t, evalSrc(t, `3 * "ab"`+"\n"), "ababab")
	wantStr(t, evalSrc(t, `"ab" * 0`+"\n"), "")
	wantStr(t, evalSrc(t, `"ab" * -2`+"\n"), "")
}

func Test_Interp_HugeStringRepeatIsOutOfMemory(t *testing.T) {
	// A repeat count whose byte total cannot be allocated must surface
	// as a zpy error, not crash the process.
	if evalErr(t, `"ab" * 4611686018427387904`+"\n").Kind != ErrOutOfMemory {
		t.Fatal("want OutOfMemory")
	}
	if evalErr(t, `"ab" * 2000000000`+"\n").Kind != ErrOutOfMemory {
		t.Fatal("want OutOfMemory for a merely huge count too")
	}
}

func Test_Interp_MixedAddIsTypeError(t *testing.T) {
	if evalErr(t, `"a" + 1`+"\n").Kind != ErrType {
		t.Fatal("want TypeError")
	}
}

func Test_Interp_UnaryMinus(t *testing.T) {
	wantInt(t, evalSrc(t, "-(3 + 4)\n"), -7)
	wantFloat(t, evalSrc(t, "-2.5\n"), -2.5)
}

// --- logic -----------------------------------------------------------------

func Test_Interp_AndOrYieldBooleans(t *testing.T) {
	wantBool(t, evalSrc(t, "1 and 2\n"), true)
	wantBool(t, evalSrc(t, "0 or 3\n"), true)
	wantBool(t, evalSrc(t, "0 and 2\n"), false)
	wantBool(t, evalSrc(t, "0 or 0\n"), false)
}

func Test_Interp_NoShortCircuit(t *testing.T) {
	// Both sides run even when the left side already decides the result.
	src := `calls = []
def probe():
    calls.append(1)
    return true
r = false and probe()
n = len(calls)
`
	ip := NewInterpreter()
	if _, err := ip.EvalSource(src); err != nil {
		t.Fatalf("eval: %v", err)
	}
	n, _ := ip.Global.Get("n")
	wantInt(t, n, 1)
}

func Test_Interp_Truthiness(t *testing.T) {
	wantBool(t, evalSrc(t, "bool([])\n"), false)
	wantBool(t, evalSrc(t, "bool([0])\n"), true)
	wantBool(t, evalSrc(t, `bool("")`+"\n"), false)
	wantBool(t, evalSrc(t, "bool({})\n"), false)
	wantBool(t, evalSrc(t, "bool(0.0)\n"), false)
	wantBool(t, evalSrc(t, "bool(none)\n"), false)
}

func Test_Interp_NotChain(t *testing.T) {
	wantBool(t, evalSrc(t, "not not 5\n"), true)
}

// --- comparison and equality -----------------------------------------------

func Test_Interp_Comparisons(t *testing.T) {
	wantBool(t, evalSrc(t, "3 < 4\n"), true)
	wantBool(t, evalSrc(t, "3.5 >= 3\n"), true)
	wantBool(t, evalSrc(t, `"abc" < "abd"`+"\n"), true)
}

func Test_Interp_CompareMixedTypesFails(t *testing.T) {
	if evalErr(t, `1 < "a"`+"\n").Kind != ErrType {
		t.Fatal("want TypeError")
	}
}

func Test_Interp_NumericEqualityCrossesIntFloat(t *testing.T) {
	wantBool(t, evalSrc(t, "1 == 1.0\n"), true)
	wantBool(t, evalSrc(t, "1 != 2.0\n"), true)
}

func Test_Interp_ContainerEqualityIsIdentity(t *testing.T) {
	wantBool(t, evalSrc(t, "[1, 2] == [1, 2]\n"), false)
	wantBool(t, evalSrc(t, "a = [1]\nb = a\na == b\n"), true)
	wantBool(t, evalSrc(t, "{} == {}\n"), false)
}

// --- variables and scope ---------------------------------------------------

func Test_Interp_UndefinedVariable(t *testing.T) {
	re := evalErr(t, "x + 1\n")
	if re.Kind != ErrUndefinedVariable {
		t.Fatalf("want UndefinedVariable, got %v", re.Kind)
	}
}

func Test_Interp_AssignFindsNearestOwner(t *testing.T) {
	src := `x = 1
if true:
    x = 2
x
`
	wantInt(t, evalSrc(t, src), 2)
}

func Test_Interp_CalleeSeesCallerScope(t *testing.T) {
	// Call scopes chain to the caller's active scope, so a function
	// reads variables live at its call site.
	src := `def shout():
    return word
def speak():
    word = "hi"
    return shout()
speak()
`
	wantStr(t, evalSrc(t, src), "hi")
}

// --- control flow ----------------------------------------------------------

func Test_Interp_WhileLoop(t *testing.T) {
	src := `i = 0
while i < 5:
    i += 1
i
`
	wantInt(t, evalSrc(t, src), 5)
}

func Test_Interp_BreakContinue(t *testing.T) {
	src := `total = 0
i = 0
while true:
    i += 1
    if i > 10:
        break
    if i % 2 == 0:
        continue
    total += i
total
`
	wantInt(t, evalSrc(t, src), 25)
}

func Test_Interp_ReturnThroughNestedLoops(t *testing.T) {
	src := `def first_even(xs):
    for x in xs:
        while true:
            if x % 2 == 0:
                return x
            break
    return none
first_even([1, 3, 6, 7])
`
	wantInt(t, evalSrc(t, src), 6)
}

func Test_Interp_IfElifElse(t *testing.T) {
	src := `def grade(n):
    if n >= 90:
        return "A"
    elif n >= 80:
        return "B"
    else:
        return "C"
grade(85)
`
	wantStr(t, evalSrc(t, src), "B")
}

func Test_Interp_ForSeesLiveMutation(t *testing.T) {
	// Iteration is by index over the live list, so elements appended
	// during the loop are visited too.
	src := `xs = [1, 2]
count = 0
for x in xs:
    count += 1
    if count == 2:
        xs.append(3)
count
`
	wantInt(t, evalSrc(t, src), 3)
}

func Test_Interp_ForOverString_Bytes(t *testing.T) {
	src := `out = []
for c in "abc":
    out.append(c)
out.index("b")
`
	wantInt(t, evalSrc(t, src), 1)
}

func Test_Interp_ForOverString_SplitsMultiByteRunes(t *testing.T) {
	// Iteration is over raw bytes, so a two-byte UTF-8 character yields
	// two one-byte fragments that concatenate back to the original.
	src := `parts = []
for c in "é":
    parts.append(c)
n = len(parts)
whole = "".join(parts)
first = len(parts[0])
`
	ip := NewInterpreter()
	if _, err := ip.EvalSource(src); err != nil {
		t.Fatalf("eval: %v", err)
	}
	n, _ := ip.Global.Get("n")
	wantInt(t, n, 2)
	first, _ := ip.Global.Get("first")
	wantInt(t, first, 1)
	whole, _ := ip.Global.Get("whole")
	wantStr(t, whole, "é")
}

func Test_Interp_ForOverDict_KeysInOrder(t *testing.T) {
	src := `d = {"a": 1, "b": 2, "c": 3}
keys = ""
for k in d:
    keys += k
keys
`
	wantStr(t, evalSrc(t, src), "abc")
}

func Test_Interp_ForOverIntFails(t *testing.T) {
	if evalErr(t, "for x in 5:\n    pass\n").Kind != ErrType {
		t.Fatal("want TypeError")
	}
}

// --- functions -------------------------------------------------------------

func Test_Interp_FunctionCall(t *testing.T) {
	src := `def add(a, b):
    return a + b
add(2, 3)
`
	wantInt(t, evalSrc(t, src), 5)
}

func Test_Interp_MissingArgsBecomeNone(t *testing.T) {
	src := `def f(a, b):
    return b
f(1)
`
	wantNone(t, evalSrc(t, src))

	// and using the missing argument in arithmetic is a type error
	src2 := `def g(a, b):
    return a + b
g(1)
`
	if evalErr(t, src2).Kind != ErrType {
		t.Fatal("want TypeError from none + int")
	}
}

func Test_Interp_ExtraArgsDropped(t *testing.T) {
	src := `def f(a):
    return a
f(1, 2, 3)
`
	wantInt(t, evalSrc(t, src), 1)
}

func Test_Interp_FallOffEndReturnsNone(t *testing.T) {
	src := `def f():
    x = 1
f()
`
	wantNone(t, evalSrc(t, src))
}

func Test_Interp_Recursion(t *testing.T) {
	src := `def fib(n):
    if n < 2:
        return n
    return fib(n - 1) + fib(n - 2)
fib(10)
`
	wantInt(t, evalSrc(t, src), 55)
}

func Test_Interp_BuiltinsWinOverDefs(t *testing.T) {
	src := `def len(x):
    return 99
len([1, 2])
`
	wantInt(t, evalSrc(t, src), 2)
}

func Test_Interp_CallingNonFunction(t *testing.T) {
	if evalErr(t, "x = 5\nx()\n").Kind != ErrType {
		t.Fatal("want TypeError")
	}
}

// --- lists -----------------------------------------------------------------

func Test_Interp_ListIndexing(t *testing.T) {
	wantInt(t, evalSrc(t, "xs = [10, 20, 30]\nxs[0]\n"), 10)
	wantInt(t, evalSrc(t, "xs = [10, 20, 30]\nxs[-1]\n"), 30)
}

func Test_Interp_ListIndexOutOfBounds(t *testing.T) {
	if evalErr(t, "xs = [1, 2]\nxs[5]\n").Kind != ErrIndexOutOfBounds {
		t.Fatal("want IndexOutOfBounds")
	}
	if evalErr(t, "xs = [1, 2]\nxs[-3]\n").Kind != ErrIndexOutOfBounds {
		t.Fatal("want IndexOutOfBounds for negative overflow")
	}
}

func Test_Interp_ListsShareByReference(t *testing.T) {
	src := `a = [1, 2]
b = a
b.append(3)
len(a)
`
	wantInt(t, evalSrc(t, src), 3)
}

func Test_Interp_ListElementAssignment(t *testing.T) {
	wantInt(t, evalSrc(t, "xs = [1, 2, 3]\nxs[1] = 9\nxs[1]\n"), 9)
}

func Test_Interp_DelFromList(t *testing.T) {
	src := `xs = [1, 2, 3]
del xs[0]
xs[0]
`
	wantInt(t, evalSrc(t, src), 2)
	src2 := `xs = [1, 2, 3]
del xs[-1]
len(xs)
`
	wantInt(t, evalSrc(t, src2), 2)
}

func Test_Interp_StringIndexingIsBytes(t *testing.T) {
	wantStr(t, evalSrc(t, `s = "hello"`+"\ns[1]\n"), "e")
	wantStr(t, evalSrc(t, `s = "hello"`+"\ns[-1]\n"), "o")
}

// --- dicts -----------------------------------------------------------------

func Test_Interp_DictBasics(t *testing.T) {
	src := `d = {"a": 1}
d["b"] = 2
d["a"] + d["b"]
`
	wantInt(t, evalSrc(t, src), 3)
}

func Test_Interp_DictKeyNotFound(t *testing.T) {
	if evalErr(t, `d = {}`+"\n"+`d["x"]`+"\n").Kind != ErrKeyNotFound {
		t.Fatal("want KeyNotFound")
	}
}

func Test_Interp_DictInsertionOrderSurvivesOverwrite(t *testing.T) {
	src := `d = {"a": 1, "b": 2}
d["a"] = 9
keys = ""
for k in d:
    keys += k
keys
`
	wantStr(t, evalSrc(t, src), "ab")
}

func Test_Interp_DelFromDict(t *testing.T) {
	src := `d = {"a": 1, "b": 2}
del d["a"]
len(d)
`
	wantInt(t, evalSrc(t, src), 1)
	if evalErr(t, `d = {}`+"\n"+`del d["x"]`+"\n").Kind != ErrKeyNotFound {
		t.Fatal("want KeyNotFound")
	}
}

func Test_Interp_DictStructuralKeyLookup(t *testing.T) {
	// Key lookup is by structural equality, so a fresh equal key finds
	// the entry even though == on containers is identity.
	src := `d = {}
d[[1, 2]] = "v"
d[[1, 2]]
`
	wantStr(t, evalSrc(t, src), "v")
}

// --- membership ------------------------------------------------------------

func Test_Interp_Membership(t *testing.T) {
	wantBool(t, evalSrc(t, "2 in [1, 2, 3]\n"), true)
	wantBool(t, evalSrc(t, "5 not in [1, 2, 3]\n"), true)
	wantBool(t, evalSrc(t, `"ell" in "hello"`+"\n"), true)
	wantBool(t, evalSrc(t, `d = {"k": 1}`+"\n"+`"k" in d`+"\n"), true)
	wantBool(t, evalSrc(t, `d = {"k": 1}`+"\n"+`1 in d`+"\n"), false)
}

func Test_Interp_MembershipInStringNeedsString(t *testing.T) {
	if evalErr(t, `1 in "123"`+"\n").Kind != ErrType {
		t.Fatal("want TypeError")
	}
}

// --- errors ----------------------------------------------------------------

func Test_Interp_ErrorCarriesPosition(t *testing.T) {
	re := evalErr(t, "x = 1\ny = z\n")
	if re.Line != 2 {
		t.Fatalf("want error on line 2, got %d", re.Line)
	}
	if !strings.Contains(re.Error(), "UndefinedVariable") {
		t.Fatalf("want kind in message, got %q", re.Error())
	}
}

func Test_Interp_ParseErrorsRefuseExecution(t *testing.T) {
	ip := NewInterpreter()
	_, err := ip.EvalSource("x = = 1\n")
	if err == nil {
		t.Fatal("want parse error")
	}
	if _, ok := ip.Global.Get("x"); ok {
		t.Fatal("nothing should have run")
	}
}

func Test_Interp_LastExpressionIsResult(t *testing.T) {
	wantInt(t, evalSrc(t, "x = 2\nx * 3\npass\nx + 1\n"), 3)
}
