package tui

import (
	"strings"

	"platedash/internal/model"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type formMode int

const (
	formAdd formMode = iota
	formEdit
)

const (
	fieldName = iota
	fieldImage
	fieldPrice
	fieldDescription
	fieldCount
)

var fieldLabels = [fieldCount]string{"Name", "Image URL", "Price", "Description"}

// plateForm is the add/edit modal body: three single-line inputs and a markdown textarea.
type plateForm struct {
	mode   formMode
	inputs [fieldDescription]textinput.Model
	desc   textarea.Model
	focus  int
}

func newPlateForm(mode formMode, d model.PlateDraft, screenW int) plateForm {
	f := plateForm{mode: mode}
	placeholders := [fieldDescription]string{"Ao molho", "https://…/plate.png", "19.90"}
	values := [fieldDescription]string{d.Name, d.Image, d.Price}
	for i := range f.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = placeholders[i]
		in.CharLimit = 512
		in.SetValue(values[i])
		f.inputs[i] = in
	}
	f.desc = textarea.New()
	f.desc.Placeholder = "Description (markdown)"
	f.desc.ShowLineNumbers = false
	f.desc.CharLimit = 4000
	f.desc.SetHeight(5)
	f.desc.SetValue(d.Description)
	f.setWidth(screenW)
	f.setFocus(fieldName)
	return f
}

func (f *plateForm) setWidth(screenW int) {
	bodyW := modalBodyWidth(screenW)
	for i := range f.inputs {
		f.inputs[i].Width = max(bodyW-3, 1)
	}
	f.desc.SetWidth(bodyW)
}

func (f plateForm) title() string {
	if f.mode == formEdit {
		return "Edit plate"
	}
	return "New plate"
}

func (f *plateForm) setFocus(i int) tea.Cmd {
	f.focus = ((i % fieldCount) + fieldCount) % fieldCount
	for j := range f.inputs {
		f.inputs[j].Blur()
	}
	f.desc.Blur()
	if f.focus == fieldDescription {
		return f.desc.Focus()
	}
	return f.inputs[f.focus].Focus()
}

func (f *plateForm) next() tea.Cmd { return f.setFocus(f.focus + 1) }
func (f *plateForm) prev() tea.Cmd { return f.setFocus(f.focus - 1) }

// update forwards msg to the focused field.
func (f *plateForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if f.focus == fieldDescription {
		f.desc, cmd = f.desc.Update(msg)
	} else {
		f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	}
	return cmd
}

func (f plateForm) draft() model.PlateDraft {
	return model.PlateDraft{
		Name:        strings.TrimSpace(f.inputs[fieldName].Value()),
		Image:       strings.TrimSpace(f.inputs[fieldImage].Value()),
		Price:       strings.TrimSpace(f.inputs[fieldPrice].Value()),
		Description: strings.TrimSpace(f.desc.Value()),
	}
}

func (f plateForm) view(screenW int) string {
	bodyW := modalBodyWidth(screenW)

	var rows []string
	for i := range f.inputs {
		rows = append(rows, renderFormField(bodyW, fieldLabels[i], i == f.focus, f.inputs[i].View()), "")
	}
	rows = append(rows, renderFormLabel(fieldLabels[fieldDescription], f.focus == fieldDescription), f.desc.View(), "")

	help := "tab/shift+tab: field   ctrl+s: save   esc: cancel"
	if f.mode == formAdd {
		help += "   (new plates start unavailable)"
	}
	rows = append(rows, styleMuted().Width(bodyW).Render(help))
	return renderModalBox(screenW, f.title(), strings.Join(rows, "\n"))
}
