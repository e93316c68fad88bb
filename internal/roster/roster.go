// Package roster resolves which prosecutor covers a duty post on a given
// calendar day. The schedule encodes day-of-month ranges only, so the roster
// repeats identically every month.
package roster

import (
	"strconv"
	"strings"
)

// Entry is one coverage range within a post's schedule. Start and End are
// day-of-month values, both inclusive.
type Entry struct {
	Name   string
	Gender string
	Start  int
	End    int
}

// Post is a duty post definition with its ordered schedule.
type Post struct {
	Label    string
	Schedule []Entry
}

var posts = []Post{
	{Label: "61º Promotor de Justiça Criminal", Schedule: []Entry{
		{Name: "Nina Pereira Malheiros", Gender: "F", Start: 1, End: 31},
	}},
	{Label: "62º Promotor de Justiça Criminal", Schedule: []Entry{
		{Name: "Pedro Henrique da Silva Rosa", Gender: "M", Start: 1, End: 31},
	}},
	{Label: "63º Promotor de Justiça Criminal", Schedule: []Entry{
		{Name: "Michaela Carli Gomes", Gender: "F", Start: 1, End: 31},
	}},
	{Label: "64º Promotor de Justiça Criminal", Schedule: []Entry{
		{Name: "Pedro Henrique Pavanelli Lima", Gender: "M", Start: 7, End: 16},
		{Name: "Tânia Serra Azul Guimaraes Biazolli", Gender: "F", Start: 17, End: 31},
	}},
	{Label: "65º Promotor de Justiça Criminal", Schedule: []Entry{
		{Name: "Rafael Leme Cabello", Gender: "M", Start: 7, End: 16},
		{Name: "Paulo Henrique Castex", Gender: "M", Start: 17, End: 31},
	}},
	{Label: "66º Promotor de Justiça Criminal", Schedule: []Entry{
		{Name: "Martha de Camargo Duarte Dias", Gender: "F", Start: 1, End: 16},
		{Name: "Barbara da Cunha Defaveri", Gender: "F", Start: 17, End: 31},
	}},
	{Label: "67º Promotor de Justiça Criminal", Schedule: []Entry{
		{Name: "Vera Lorza Duarte", Gender: "F", Start: 1, End: 31},
	}},
	{Label: "68º Promotor de Justiça Criminal", Schedule: []Entry{
		{Name: "Beatriz Lotufo Oliveira", Gender: "F", Start: 1, End: 31},
	}},
	{Label: "69º Promotor de Justiça Criminal", Schedule: []Entry{
		{Name: "Laurani Assis de Figueiredo", Gender: "F", Start: 7, End: 16},
		{Name: "Adriana Ribeiro Soares de Morais", Gender: "F", Start: 17, End: 31},
	}},
	{Label: "70º Promotor de Justiça Criminal", Schedule: []Entry{
		{Name: "Barbara da Cunha Defaveri", Gender: "F", Start: 1, End: 31},
	}},
	{Label: "71º Promotor de Justiça Criminal", Schedule: []Entry{
		{Name: "Leonardo D'Angelo Vargas Pereira", Gender: "M", Start: 1, End: 31},
	}},
	{Label: "72º Promotor de Justiça Criminal", Schedule: []Entry{
		{Name: "Pedro Henrique da Silva Rosa", Gender: "M", Start: 1, End: 31},
	}},
	{Label: "73º Promotor de Justiça Criminal", Schedule: []Entry{
		{Name: "Daniel Fontana", Gender: "M", Start: 1, End: 31},
	}},
	{Label: "74º Promotor de Justiça Criminal", Schedule: []Entry{
		{Name: "Pedro de Andrade Khouri Santos", Gender: "M", Start: 1, End: 31},
	}},
	{Label: "75º Promotor de Justiça Criminal", Schedule: []Entry{
		{Name: "Guilherme Carvalho da Silva", Gender: "M", Start: 7, End: 16},
		{Name: "Fernanda Queiroz Karan Franco", Gender: "F", Start: 17, End: 31},
	}},
	{Label: "76º Promotor de Justiça Criminal", Schedule: []Entry{
		{Name: "Laurani Assis de Figueiredo", Gender: "F", Start: 1, End: 31},
	}},
	{Label: "77º Promotor de Justiça Criminal", Schedule: []Entry{
		{Name: "Solange Aparecida Cruz", Gender: "F", Start: 1, End: 31},
	}},
	{Label: "78º Promotor de Justiça Criminal", Schedule: []Entry{
		{Name: "Claudio Henrique Bastos Giannini", Gender: "M", Start: 1, End: 31},
	}},
	{Label: "79º Promotor de Justiça Criminal", Schedule: []Entry{
		{Name: "Margareth Ferraz França", Gender: "F", Start: 1, End: 31},
	}},
	{Label: "80º Promotor de Justiça Criminal", Schedule: []Entry{
		{Name: "Tais Servilha Ferrari", Gender: "F", Start: 1, End: 31},
	}},
}

// Find returns the post with the exact label.
func Find(label string) (Post, bool) {
	for _, p := range posts {
		if p.Label == label {
			return p, true
		}
	}
	return Post{}, false
}

// Labels returns post labels in declaration order.
func Labels() []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Label
	}
	return out
}

// Resolve maps (post label, YYYY-MM-DD date) to the covering prosecutor.
//
// With an empty date it returns the distinct names of the post's schedule
// joined by " / ", preserving first-occurrence order. With a date it matches
// the day-of-month against the inclusive ranges; the first declared entry
// wins when ranges overlap. Unknown posts and uncovered days resolve to "".
func Resolve(cargoLabel, dateString string) string {
	p, ok := Find(cargoLabel)
	if !ok {
		return ""
	}
	if dateString == "" {
		var names []string
		seen := map[string]bool{}
		for _, e := range p.Schedule {
			if !seen[e.Name] {
				seen[e.Name] = true
				names = append(names, e.Name)
			}
		}
		return strings.Join(names, " / ")
	}
	day := dayOfMonth(dateString)
	if day == 0 {
		return ""
	}
	for _, e := range p.Schedule {
		if day >= e.Start && day <= e.End {
			return e.Name
		}
	}
	return ""
}

// Honorific maps the post to "Dr." or "Dra." based on the gender of schedule
// entry 0, regardless of which entry covers the date in question.
func Honorific(cargoLabel string) string {
	p, ok := Find(cargoLabel)
	if !ok || len(p.Schedule) == 0 {
		return "Dr.(a)"
	}
	if p.Schedule[0].Gender == "M" {
		return "Dr."
	}
	return "Dra."
}

// Lead returns the name in schedule entry 0, used for document footers.
func Lead(cargoLabel string) string {
	p, ok := Find(cargoLabel)
	if !ok || len(p.Schedule) == 0 {
		return ""
	}
	return p.Schedule[0].Name
}

// CargoCode extracts the first digit run of the label as "(C.64)" for NI
// letter headers. Empty when the label has no digits.
func CargoCode(cargoLabel string) string {
	start := -1
	for i, r := range cargoLabel {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			return "(C." + cargoLabel[start:i] + ")"
		}
	}
	if start >= 0 {
		return "(C." + cargoLabel[start:] + ")"
	}
	return ""
}

func dayOfMonth(dateString string) int {
	parts := strings.Split(dateString, "-")
	if len(parts) != 3 {
		return 0
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0
	}
	return day
}
