//go:build js && wasm

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"syscall/js"

	"github.com/drillboard/drillboard/backend-go/internal/diagram"
	"github.com/drillboard/drillboard/backend-go/internal/editor"
	"github.com/drillboard/drillboard/backend-go/internal/shape"
	"github.com/drillboard/drillboard/backend-go/internal/symbol"
)

var (
	ctrl     *editor.Controller
	viewer   *editor.Viewer
	custom   = symbol.Static{}
	onCommit js.Value
)

func provider() symbol.Provider { return symbol.Chain{custom, symbol.Builtin()} }

func main() {
	api := js.Global().Get("Object").New()

	// --- Setup ---
	api.Set("registerTemplate", js.FuncOf(registerTemplate))
	api.Set("mount", js.FuncOf(mount))
	api.Set("mountViewer", js.FuncOf(mountViewer))
	api.Set("onCommit", js.FuncOf(setOnCommit))
	api.Set("loadDocument", js.FuncOf(loadDocument))
	api.Set("loadSample", js.FuncOf(loadSample))

	// --- Commands (frontend → editor) ---
	api.Set("dispatch", js.FuncOf(dispatch))
	api.Set("addSymbol", js.FuncOf(addSymbol))
	api.Set("startPath", js.FuncOf(startPath))
	api.Set("deleteSelected", js.FuncOf(deleteSelected))
	api.Set("recolorSelected", js.FuncOf(recolorSelected))
	api.Set("cancel", js.FuncOf(cancel))
	api.Set("resize", js.FuncOf(resize))

	// --- Queries (frontend ← editor) ---
	api.Set("render", js.FuncOf(render))
	api.Set("renderViewer", js.FuncOf(renderViewer))
	api.Set("getDocument", js.FuncOf(getDocument))
	api.Set("getState", js.FuncOf(getState))
	api.Set("getSelection", js.FuncOf(getSelection))

	js.Global().Set("drillboardEditor", api)
	js.Global().Set("drillboardWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func ok() interface{} { return js.ValueOf(map[string]interface{}{"ok": true}) }

func fail(err error) interface{} {
	return js.ValueOf(map[string]interface{}{"error": err.Error()})
}

func loaded(errs []error) interface{} {
	warnings := make([]interface{}, len(errs))
	for i, err := range errs {
		warnings[i] = err.Error()
	}
	return js.ValueOf(map[string]interface{}{"ok": true, "warnings": warnings})
}

func argString(args []js.Value, i int) string {
	if len(args) > i && args[i].Type() == js.TypeString {
		return args[i].String()
	}
	return ""
}

func options(courtID string) (editor.Options, error) {
	opts := editor.Options{
		Provider: provider(),
		OnCommit: func(doc []byte) {
			if onCommit.Type() == js.TypeFunction {
				onCommit.Invoke(string(doc))
			}
		},
	}
	if courtID != "" {
		court, err := opts.Provider.Template(courtID)
		if err != nil {
			return opts, err
		}
		opts.Court = court
	}
	return opts, nil
}

// --- Setup ---

// registerTemplate(id, svgText) adds or replaces a template. Mounted
// editors see it on their next lookup.
func registerTemplate(this js.Value, args []js.Value) interface{} {
	id, src := argString(args, 0), argString(args, 1)
	if !symbol.ValidID(id) {
		return fail(fmt.Errorf("invalid template id %q", id))
	}
	tpl, err := symbol.ParseTemplate(id, strings.NewReader(src))
	if err != nil {
		return fail(err)
	}
	custom[id] = tpl
	return ok()
}

// mount(docJSON, courtTemplateID) creates the editor.
func mount(this js.Value, args []js.Value) interface{} {
	opts, err := options(argString(args, 1))
	if err != nil {
		return fail(err)
	}
	var errs []error
	ctrl, errs = editor.New([]byte(argString(args, 0)), opts)
	return loaded(errs)
}

// mountViewer(docJSON, courtTemplateID) creates the read-only viewer.
func mountViewer(this js.Value, args []js.Value) interface{} {
	opts, err := options(argString(args, 1))
	if err != nil {
		return fail(err)
	}
	opts.OnCommit = nil
	var errs []error
	viewer, errs = editor.NewViewer([]byte(argString(args, 0)), opts)
	return loaded(errs)
}

func setOnCommit(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || args[0].Type() != js.TypeFunction {
		return fail(errors.New("onCommit needs a function"))
	}
	onCommit = args[0]
	return ok()
}

func loadDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return fail(errors.New("missing document JSON"))
	}
	doc := []byte(args[0].String())
	if viewer != nil {
		viewer.Load(doc)
	}
	if ctrl == nil {
		return ok()
	}
	return loaded(ctrl.Load(doc))
}

func loadSample(this js.Value, args []js.Value) interface{} {
	if ctrl == nil {
		return fail(errNotMounted)
	}
	ctrl.LoadSample()
	return ok()
}

// --- Commands ---

var errNotMounted = errors.New("editor not mounted")

func send(ev editor.Event) interface{} {
	if ctrl == nil {
		return fail(errNotMounted)
	}
	if err := ctrl.Dispatch(ev); err != nil {
		return fail(err)
	}
	return ok()
}

// dispatch(eventJSON) forwards a raw pointer, key or command event.
func dispatch(this js.Value, args []js.Value) interface{} {
	ev, err := editor.DecodeEvent([]byte(argString(args, 0)))
	if err != nil {
		return fail(err)
	}
	return send(ev)
}

func addSymbol(this js.Value, args []js.Value) interface{} {
	return send(editor.AddSymbol{Kind: symbol.Kind(argString(args, 0)), TemplateID: argString(args, 1)})
}

// startPath(curve, style, ending, stroke)
func startPath(this js.Value, args []js.Value) interface{} {
	ev := editor.StartPath{
		Style:  shape.Style(argString(args, 1)),
		Ending: shape.Ending(argString(args, 2)),
		Stroke: argString(args, 3),
	}
	if len(args) > 0 {
		ev.Curve = args[0].Truthy()
	}
	return send(ev)
}

func deleteSelected(this js.Value, args []js.Value) interface{} {
	return send(editor.DeleteSelected{})
}

func recolorSelected(this js.Value, args []js.Value) interface{} {
	return send(editor.RecolorSelected{Color: argString(args, 0)})
}

func cancel(this js.Value, args []js.Value) interface{} {
	return send(editor.Cancel{})
}

func resize(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return fail(errors.New("resize needs width and height"))
	}
	w, h := args[0].Float(), args[1].Float()
	if viewer != nil {
		viewer.Resize(w, h)
	}
	if ctrl == nil {
		return ok()
	}
	return send(editor.Resize{W: w, H: h})
}

// --- Queries ---

func toJSON(v interface{}) interface{} {
	data, err := json.Marshal(v)
	if err != nil {
		return fail(err)
	}
	return js.ValueOf(string(data))
}

func render(this js.Value, args []js.Value) interface{} {
	if ctrl == nil {
		return fail(errNotMounted)
	}
	return toJSON(ctrl.Render())
}

func renderViewer(this js.Value, args []js.Value) interface{} {
	if viewer == nil {
		return fail(errors.New("viewer not mounted"))
	}
	return toJSON(viewer.Render())
}

func getDocument(this js.Value, args []js.Value) interface{} {
	if ctrl == nil {
		data, err := diagram.Serialize(diagram.NewScene(diagram.DefaultViewBox))
		if err != nil {
			return fail(err)
		}
		return js.ValueOf(string(data))
	}
	data, err := ctrl.Document()
	if err != nil {
		return fail(err)
	}
	return js.ValueOf(string(data))
}

func getState(this js.Value, args []js.Value) interface{} {
	if ctrl == nil {
		return js.ValueOf(editor.StateIdle.String())
	}
	return js.ValueOf(ctrl.State().String())
}

func getSelection(this js.Value, args []js.Value) interface{} {
	if ctrl == nil {
		return toJSON(editor.Selection{})
	}
	return toJSON(ctrl.Selection())
}
