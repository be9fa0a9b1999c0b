package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"text/tabwriter"
)

// Output печатает ответы API: человекочитаемо или JSON (--json).
//
// Данные идут в w (stdout), служебные сообщения — в errW (stderr),
// чтобы вывод exec можно было передать дальше по пайпу.
type Output struct {
	jsonMode bool
	w        io.Writer
	errW     io.Writer
}

// NewOutput создаёт Output для stdout/stderr.
func NewOutput(jsonMode bool) *Output {
	return NewOutputTo(jsonMode, os.Stdout, os.Stderr)
}

// NewOutputTo создаёт Output с явными потоками вывода.
func NewOutputTo(jsonMode bool, w, errW io.Writer) *Output {
	return &Output{jsonMode: jsonMode, w: w, errW: errW}
}

// Result печатает результат выполнения действия.
//
//	Status:   success
//	Message:  Email sent to 2 recipient(s)
//
//	DETAIL      VALUE
//	recipients  ["a@example.com","b@example.com"]
func (o *Output) Result(r *ResultResponse) {
	if o.jsonMode {
		o.JSON(r)
		return
	}

	tw := tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Status:\t%s\n", r.Status)
	fmt.Fprintf(tw, "Message:\t%s\n", r.Message)
	if r.ErrorKind != "" {
		fmt.Fprintf(tw, "Error kind:\t%s\n", r.ErrorKind)
	}
	if r.Response != nil {
		fmt.Fprintf(tw, "Response:\t%s\n", detailValue(r.Response))
	}
	tw.Flush()

	if len(r.Details) == 0 {
		return
	}
	keys := make([]string, 0, len(r.Details))
	for k := range r.Details {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	rows := make([][]string, len(keys))
	for i, k := range keys {
		rows[i] = []string{k, detailValue(r.Details[k])}
	}
	fmt.Fprintln(o.w)
	o.table([]string{"DETAIL", "VALUE"}, rows)
}

// Queued печатает ответ асинхронного выполнения.
func (o *Output) Queued(q *QueuedResponse) {
	if o.jsonMode {
		o.JSON(q)
		return
	}
	fmt.Fprintln(o.w, q.RequestID)
	o.Info("Action queued: " + q.RequestID)
}

// List печатает список имён: колонка с заголовком или JSON массив.
func (o *Output) List(header string, items []string) {
	if o.jsonMode {
		o.JSON(items)
		return
	}
	rows := make([][]string, len(items))
	for i, item := range items {
		rows[i] = []string{item}
	}
	o.table([]string{header}, rows)
}

// JSON выводит значение в JSON с отступами.
func (o *Output) JSON(v any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

// Info выводит сообщение в stderr.
func (o *Output) Info(msg string) {
	fmt.Fprintln(o.errW, msg)
}

// Error выводит сообщение об ошибке в stderr.
func (o *Output) Error(msg string) {
	fmt.Fprintln(o.errW, "Error: "+msg)
}

func (o *Output) table(headers []string, rows [][]string) {
	tw := tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	tw.Flush()
}

// detailValue — строка как есть, остальное компактным JSON.
func detailValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
