package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn and printFn are test seams for REPL output. In tests, replace
// them with stubs.
var (
	printlnFn = fmt.Println
	printFn   = fmt.Print
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
// Every command receives the remainder of the input line after the command word.
type execIface interface {
	List(ctx context.Context, args string) error
	Show(ctx context.Context, args string) error
	Set(ctx context.Context, args string) error
	Clear(ctx context.Context, args string) error
	AddChoice(ctx context.Context, args string) error
	RemoveChoice(ctx context.Context, args string) error
	SetYes(ctx context.Context, args string) error
	SetNo(ctx context.Context, args string) error
	Date(ctx context.Context, args string) error
	Terms(ctx context.Context, args string) error
	Preview(ctx context.Context, args string) error
	Mode(ctx context.Context, args string) error
	Submit(ctx context.Context, args string) error
	Drafts(ctx context.Context, args string) error
	Save(ctx context.Context, args string) error
	Resume(ctx context.Context, args string) error
	Discard(ctx context.Context, args string) error
	Reload(ctx context.Context, args string) error
	Status(ctx context.Context, args string) error
	Cache(ctx context.Context, args string) error
}

const helpText = `Available commands:
  (l)ist                      show editable fields and values
  show <field>                show one field in detail
  set <field> [value]         set a value (prompts when value is omitted)
  clear <field>               clear a value (yes/no resets to No)
  add <field> <option>        add an option to a multi-choice field
  remove <field> <option>     remove an option from a multi-choice field
  yes <field> | no <field>    set a yes/no field
  date <field> [date]         set a date (empty clears)
  terms <field> <Label|ID;..> set managed metadata terms
  preview                     show the request body submit would send
  mode [literal|native]       show or change the transport mode
  submit                      send all changes in one request
  drafts                      list saved drafts
  save                        save the current changes as a draft
  resume <id>                 reopen a draft (unique id prefix is enough)
  discard <id>                delete a draft
  reload [-f]                 reload the page from the site
  status                      show connectivity and batch state
  cache [clear]               show local settings or forget cached list ids
  exit | quit                 leave the program`

// runREPL starts a simple read–eval–print loop for the property editor.
//
// It reads a line from reader, takes the first word as the command and
// dispatches the rest of the line to the matching method on a. Errors
// returned by commands are printed and the loop continues. The loop exits
// on EOF, on context cancellation, or when the user types "exit" or "quit".
//
// The prompt comes from promptFn; an empty prompt is not printed, which
// keeps piped scripts quiet.
func runREPL(ctx context.Context, a execIface, promptFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		if p := promptFn(); p != "" {
			printFn(p)
		}

		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return
		}

		cmd, args := splitCommand(line)
		if cmd == "" {
			continue
		}

		var cmdErr error
		switch cmd {
		case "help", "?":
			printlnFn(helpText)
		case "l", "list", "ls":
			cmdErr = a.List(ctx, args)
		case "show":
			cmdErr = a.Show(ctx, args)
		case "set":
			cmdErr = a.Set(ctx, args)
		case "clear":
			cmdErr = a.Clear(ctx, args)
		case "add":
			cmdErr = a.AddChoice(ctx, args)
		case "remove", "rm":
			cmdErr = a.RemoveChoice(ctx, args)
		case "yes":
			cmdErr = a.SetYes(ctx, args)
		case "no":
			cmdErr = a.SetNo(ctx, args)
		case "date":
			cmdErr = a.Date(ctx, args)
		case "terms":
			cmdErr = a.Terms(ctx, args)
		case "preview":
			cmdErr = a.Preview(ctx, args)
		case "mode":
			cmdErr = a.Mode(ctx, args)
		case "submit":
			cmdErr = a.Submit(ctx, args)
		case "drafts":
			cmdErr = a.Drafts(ctx, args)
		case "save":
			cmdErr = a.Save(ctx, args)
		case "resume":
			cmdErr = a.Resume(ctx, args)
		case "discard":
			cmdErr = a.Discard(ctx, args)
		case "reload":
			cmdErr = a.Reload(ctx, args)
		case "status":
			cmdErr = a.Status(ctx, args)
		case "cache":
			cmdErr = a.Cache(ctx, args)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr)
		}
		if err != nil {
			return
		}
	}
}

// splitCommand separates the command word from the rest of the line.
func splitCommand(line string) (cmd, args string) {
	line = strings.TrimSpace(line)
	cmd, args, _ = strings.Cut(line, " ")
	return strings.ToLower(cmd), strings.TrimSpace(args)
}

// splitField separates a leading field name from its argument.
func splitField(args string) (field, rest string) {
	field, rest, _ = strings.Cut(strings.TrimSpace(args), " ")
	return field, strings.TrimSpace(rest)
}
