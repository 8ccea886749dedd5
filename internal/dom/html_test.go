package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleForm = `
<html><body>
<form id="apply">
	<div class="row">
		<label for="email">Email</label>
		<input id="email" name="email" type="email">
	</div>
	<textarea id="why" name="why">old</textarea>
	<select id="years" name="years">
		<option value="">Select...</option>
		<option value="1">1 year</option>
		<option value="5">5 years</option>
	</select>
	<input type="radio" name="relocate" value="yes" checked>
	<input type="radio" name="relocate" value="no">
</form>
</body></html>`

func parseSample(t *testing.T) *HTMLDocument {
	t.Helper()
	doc, err := ParseHTMLString(sampleForm)
	require.NoError(t, err)
	return doc
}

func mustQuery(t *testing.T, doc Document, selector string) Element {
	t.Helper()
	el, err := doc.Query(selector)
	require.NoError(t, err)
	require.NotNil(t, el, "no element for %s", selector)
	return el
}

func TestQueryAll_DocumentOrder(t *testing.T) {
	doc := parseSample(t)

	els, err := doc.QueryAll("input, textarea, select")
	require.NoError(t, err)
	require.Len(t, els, 5)

	assert.Equal(t, "email", els[0].Attr("id"))
	assert.Equal(t, "why", els[1].Attr("id"))
	assert.Equal(t, "years", els[2].Attr("id"))
	assert.Equal(t, "radio", InputType(els[3]))
}

func TestQueryAll_InvalidSelector(t *testing.T) {
	doc := parseSample(t)

	_, err := doc.QueryAll("input[")
	assert.Error(t, err)
}

func TestElement_Traversal(t *testing.T) {
	doc := parseSample(t)
	email := mustQuery(t, doc, "#email")

	prev := email.PrevSibling()
	require.NotNil(t, prev)
	assert.Equal(t, "label", prev.Tag())
	assert.Equal(t, "Email", prev.Text())

	row := email.Closest("div")
	require.NotNil(t, row)
	assert.Equal(t, "row", row.Attr("class"))
	assert.NotNil(t, row.Find("label"))

	assert.Nil(t, email.Closest("fieldset"))
}

func TestElement_ValuesAndRender(t *testing.T) {
	doc := parseSample(t)

	email := mustQuery(t, doc, "#email")
	require.NoError(t, email.SetValue("ada@example.com"))
	assert.Equal(t, "ada@example.com", email.Value())

	why := mustQuery(t, doc, "#why")
	assert.Equal(t, "old", why.Value())
	require.NoError(t, why.NativeSetValue("Because."))
	assert.Equal(t, "Because.", why.Value())

	years := mustQuery(t, doc, "#years")
	assert.Equal(t, "", years.Value())
	require.NoError(t, years.SelectOption(2))
	assert.Equal(t, "5", years.Value())
	assert.Error(t, years.SelectOption(9))

	out, err := doc.Render()
	require.NoError(t, err)
	assert.Contains(t, out, `value="ada@example.com"`)
	assert.Contains(t, out, "Because.")
}

func TestElement_RadioGroupIsExclusive(t *testing.T) {
	doc := parseSample(t)
	radios, err := doc.QueryAll(`input[type="radio"]`)
	require.NoError(t, err)
	require.Len(t, radios, 2)

	require.NoError(t, radios[1].SetChecked(true))
	assert.False(t, radios[0].Checked())
	assert.True(t, radios[1].Checked())
}

func TestElement_DetachedWritesFail(t *testing.T) {
	doc := parseSample(t)
	email := mustQuery(t, doc, "#email")
	doc.Remove(email)

	assert.False(t, email.Connected())
	assert.ErrorIs(t, email.SetValue("x"), ErrDetached)
	assert.ErrorIs(t, email.SetChecked(true), ErrDetached)
	assert.ErrorIs(t, email.Dispatch(Event{Type: "input", Bubbles: true}), ErrDetached)
}

func TestControlledInput_PlainAssignmentIsSwallowed(t *testing.T) {
	doc := parseSample(t)
	email := mustQuery(t, doc, "#email")
	require.NoError(t, doc.Control(email))

	require.NoError(t, email.SetValue("plain@example.com"))
	require.NoError(t, email.Dispatch(Event{Type: "input", Bubbles: true}))
	assert.Empty(t, doc.Changes())

	require.NoError(t, email.NativeSetValue("native@example.com"))
	require.NoError(t, email.Dispatch(Event{Type: "input", Bubbles: false}))
	assert.Empty(t, doc.Changes(), "non-bubbling events never reach the framework")

	require.NoError(t, email.Dispatch(Event{Type: "input", Bubbles: true}))
	changes := doc.Changes()
	require.Len(t, changes, 1)
	assert.Equal(t, "native@example.com", changes[0].Value)
}

func TestDispatch_OnlyBubblingEventsAreRecorded(t *testing.T) {
	doc := parseSample(t)
	email := mustQuery(t, doc, "#email")

	require.NoError(t, email.Dispatch(Event{Type: "blur", Bubbles: false}))
	assert.Empty(t, doc.Events())

	require.NoError(t, email.Dispatch(Event{Type: "change", Bubbles: true}))
	events := doc.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "change", events[0].Event.Type)
}

func TestElement_Options(t *testing.T) {
	doc := parseSample(t)
	opts := mustQuery(t, doc, "#years").Options()

	require.Len(t, opts, 3)
	assert.Equal(t, Option{Value: "", Text: "Select..."}, opts[0])
	assert.Equal(t, Option{Value: "5", Text: "5 years"}, opts[2])
}
