package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellbridge-labs/sellbridge-cli/internal/adapters/driving/tui/styles"
)

func TestNewField(t *testing.T) {
	s := styles.DefaultStyles()
	field := NewField(s, "API Key", "paste key", false)

	require.NotNil(t, field)
	assert.Equal(t, "", field.Value())
	assert.Equal(t, "API Key", field.Label())
	assert.False(t, field.Focused())
}

func TestNewField_NilStyles(t *testing.T) {
	field := NewField(nil, "Store Hash", "", false)

	require.NotNil(t, field)
	assert.NotNil(t, field.styles)
}

func TestField_Init(t *testing.T) {
	field := NewField(nil, "Shop Domain", "", false)

	cmd := field.Init()

	// Blink command should be returned
	assert.NotNil(t, cmd)
}

func TestField_Update(t *testing.T) {
	field := NewField(nil, "Shop Domain", "", false)
	field.Focus()

	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}}
	updated, cmd := field.Update(msg)

	assert.Equal(t, field, updated)
	// textinput returns nil cmd for regular key presses
	_ = cmd
	assert.Equal(t, "a", field.Value())
}

func TestField_View(t *testing.T) {
	field := NewField(nil, "Consumer Key", "", false)

	view := field.View()

	assert.NotEmpty(t, view)
	assert.Contains(t, view, "Consumer Key")
}

func TestField_SecretDoesNotEchoValue(t *testing.T) {
	field := NewField(nil, "Consumer Secret", "", true)
	field.SetValue("cs_super_secret")

	view := field.View()

	assert.NotContains(t, view, "cs_super_secret")
}

func TestField_SetValue(t *testing.T) {
	field := NewField(nil, "Shop Domain", "", false)

	field.SetValue("acme.myshopify.com")

	assert.Equal(t, "acme.myshopify.com", field.Value())
}

func TestField_FocusBlur(t *testing.T) {
	field := NewField(nil, "Shop Domain", "", false)

	assert.False(t, field.Focused())

	cmd := field.Focus()
	assert.NotNil(t, cmd)
	assert.True(t, field.Focused())

	field.Blur()
	assert.False(t, field.Focused())
}

func TestField_SetWidth(t *testing.T) {
	field := NewField(nil, "Shop Domain", "", false)

	field.SetWidth(100)

	assert.Equal(t, 100, field.Width())
}

func TestField_SetWidth_Minimum(t *testing.T) {
	field := NewField(nil, "Shop Domain", "", false)

	field.SetWidth(10) // Very small, should use minimum

	assert.Equal(t, 10, field.Width())
	// Internal textinput width should be at least 20
}

func TestField_Reset(t *testing.T) {
	field := NewField(nil, "Shop Domain", "", false)
	field.SetValue("some text")

	field.Reset()

	assert.Equal(t, "", field.Value())
}

func TestField_Update_MultipleKeys(t *testing.T) {
	field := NewField(nil, "Store Hash", "", false)
	field.Focus()

	keys := []rune{'h', 'a', 's', 'h'}
	for _, k := range keys {
		msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{k}}
		field.Update(msg)
	}

	assert.Equal(t, "hash", field.Value())
}

func TestField_Update_Backspace(t *testing.T) {
	field := NewField(nil, "Store Hash", "", false)
	field.Focus()
	field.SetValue("test")

	msg := tea.KeyMsg{Type: tea.KeyBackspace}
	field.Update(msg)

	assert.Equal(t, "tes", field.Value())
}
