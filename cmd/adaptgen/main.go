// cmd/adaptgen/main.go
package main

import (
	"bytes"
	"flag"
	"fmt"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"
)

// This binary is a code-generation tool.
//
// It reads a Go source file declaring a target interface and generates the
// router type: a concrete implementation of that interface forwarding every
// method to an adapter.Handler. The router is the dynamic-dispatch side of
// the object adapter; Go cannot synthesize interface implementations at
// runtime, so they are generated instead.
//
// Key behaviors:
// - Parses the whole package directory so embedded interfaces declared in
//   sibling files resolve too
// - Reuses the owner file's imports for qualified types in signatures
//   (so generated code matches local style), but only the ones the
//   signatures actually reference
// - Guarantees an import of the adapter package under a usable identifier
// - Unboxes results with comma-ok assertions so nil interface results
//   become zero values instead of panics
// - Writes output atomically (temp file + rename) to avoid partial writes

// defaultHandlerPkg is the import path of the adapter library the generated
// router forwards through.
const defaultHandlerPkg = "github.com/sghaida/goadapt/adapter"

// ImportSpec models one Go import: optional alias and full import path.
type ImportSpec struct {
	Alias string
	Path  string
}

// routerMethod is one generated forwarding method.
type routerMethod struct {
	// Name is the interface method name.
	Name string

	// ParamList is the rendered parameter list, e.g. "p0 string, p1 ...int".
	ParamList string

	// ParamNames are the fresh parameter names, forwarded in order.
	ParamNames []string

	// Results are the rendered result types, in order.
	Results []string

	// ResultList is the rendered result clause including a leading space,
	// e.g. " (string, error)"; empty when the method returns nothing.
	ResultList string

	// ReturnList is "res0, res1, ..." matching Results.
	ReturnList string
}

// templateData is the input passed to the Go template.
type templateData struct {
	Package      string
	IfaceName    string
	RouterName   string
	AdapterIdent string
	Imports      []ImportSpec
	Methods      []routerMethod
}

// run executes the generator logic and returns an exit code.
// It exists separately from main to allow unit testing without os.Exit.
func run(args []string, stderr io.Writer) int {
	flags := flag.NewFlagSet("adaptgen", flag.ContinueOnError)
	flags.SetOutput(stderr)

	srcPath := flags.String("src", "", "Go file declaring the target interface")
	ifaceName := flags.String("iface", "", "target interface name")
	outPath := flags.String("out", "", "output .gen.go file path")
	routerName := flags.String("router", "", "generated router type name (default <iface>Router)")
	handlerPkg := flags.String("handlerpkg", defaultHandlerPkg, "import path of the adapter package")

	if err := flags.Parse(args); err != nil {
		return 2
	}

	if strings.TrimSpace(*srcPath) == "" ||
		strings.TrimSpace(*ifaceName) == "" ||
		strings.TrimSpace(*outPath) == "" {
		_, _ = fmt.Fprintln(stderr, "usage: adaptgen -src <file.go> -iface <Interface> -out <file.gen.go>")
		return 2
	}

	data, err := buildTemplateData(*srcPath, *ifaceName, *routerName, *handlerPkg)
	must(err)

	var out strings.Builder
	must(genTemplate.Execute(&out, data))

	must(writeFileAtomic(filepath.Clean(*outPath), []byte(out.String()), 0o644))
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// buildTemplateData parses the package, resolves the interface, and
// assembles everything the template needs.
func buildTemplateData(srcPath, ifaceName, routerName, handlerPkg string) (templateData, error) {
	fset := token.NewFileSet()

	ownerFile, err := parser.ParseFile(fset, srcPath, nil, parser.ParseComments)
	if err != nil {
		return templateData{}, err
	}

	decls, err := parsePackageInterfaces(fset, filepath.Dir(srcPath))
	if err != nil {
		return templateData{}, err
	}

	iface, ok := decls[ifaceName]
	if !ok {
		return templateData{}, fmt.Errorf("interface %q not found in package directory of %s", ifaceName, srcPath)
	}

	methods, err := flattenMethods(fset, decls, ifaceName, iface, map[string]bool{})
	if err != nil {
		return templateData{}, err
	}
	if len(methods) == 0 {
		return templateData{}, fmt.Errorf("interface %q declares no methods; nothing to route", ifaceName)
	}

	qualifiers := collectQualifiers(methods)
	imports, adapterIdent, err := resolveImports(ownerFile.Imports, qualifiers, handlerPkg)
	if err != nil {
		return templateData{}, err
	}

	rendered := make([]routerMethod, 0, len(methods))
	for _, m := range methods {
		rm, err := renderMethod(fset, m)
		if err != nil {
			return templateData{}, err
		}
		rendered = append(rendered, rm)
	}

	if strings.TrimSpace(routerName) == "" {
		routerName = ifaceName + "Router"
	}

	return templateData{
		Package:      ownerFile.Name.Name,
		IfaceName:    ifaceName,
		RouterName:   routerName,
		AdapterIdent: adapterIdent,
		Imports:      imports,
		Methods:      rendered,
	}, nil
}

// ifaceMethod pairs a method name with its parsed signature.
type ifaceMethod struct {
	name string
	sig  *ast.FuncType
}

// parsePackageInterfaces collects every interface declaration in the
// package directory, test and generated files excluded, so embedded
// interfaces declared in sibling files resolve.
func parsePackageInterfaces(fset *token.FileSet, dir string) (map[string]*ast.InterfaceType, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	decls := make(map[string]*ast.InterfaceType)
	for _, entry := range dirEntries {
		if entry.IsDir() {
			continue
		}

		fileName := entry.Name()
		if !strings.HasSuffix(fileName, ".go") ||
			strings.HasSuffix(fileName, "_test.go") ||
			strings.HasSuffix(fileName, ".gen.go") {
			continue
		}

		// Partial ASTs are still useful; skip only files that fail outright.
		parsedFile, _ := parser.ParseFile(fset, filepath.Join(dir, fileName), nil, parser.AllErrors)
		if parsedFile == nil {
			continue
		}

		for _, declaration := range parsedFile.Decls {
			genDecl, ok := declaration.(*ast.GenDecl)
			if !ok || genDecl.Tok != token.TYPE {
				continue
			}
			for _, spec := range genDecl.Specs {
				typeSpec, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				ifaceType, ok := typeSpec.Type.(*ast.InterfaceType)
				if !ok {
					continue
				}
				decls[typeSpec.Name.Name] = ifaceType
			}
		}
	}
	return decls, nil
}

// flattenMethods walks an interface and its locally declared embedded
// interfaces, depth first, deduplicating by method name (Go requires
// duplicate names across embeds to carry identical signatures, so the
// first occurrence is authoritative).
func flattenMethods(
	fset *token.FileSet,
	decls map[string]*ast.InterfaceType,
	name string,
	iface *ast.InterfaceType,
	visiting map[string]bool,
) ([]ifaceMethod, error) {
	if visiting[name] {
		return nil, fmt.Errorf("interface %q embeds itself (directly or via a cycle)", name)
	}
	visiting[name] = true
	defer delete(visiting, name)

	var methods []ifaceMethod
	seen := make(map[string]bool)

	appendMethod := func(m ifaceMethod) {
		if seen[m.name] {
			return
		}
		seen[m.name] = true
		methods = append(methods, m)
	}

	if iface.Methods == nil {
		return nil, nil
	}
	for _, field := range iface.Methods.List {
		if len(field.Names) > 0 {
			sig, ok := field.Type.(*ast.FuncType)
			if !ok {
				return nil, fmt.Errorf("interface %q: unsupported non-method member at %s",
					name, fset.Position(field.Pos()))
			}
			for _, ident := range field.Names {
				appendMethod(ifaceMethod{name: ident.Name, sig: sig})
			}
			continue
		}

		// Embedded interface.
		switch embed := field.Type.(type) {
		case *ast.Ident:
			inner, ok := decls[embed.Name]
			if !ok {
				return nil, fmt.Errorf("interface %q embeds %q, which is not declared in this package directory",
					name, embed.Name)
			}
			innerMethods, err := flattenMethods(fset, decls, embed.Name, inner, visiting)
			if err != nil {
				return nil, err
			}
			for _, m := range innerMethods {
				appendMethod(m)
			}
		case *ast.SelectorExpr:
			return nil, fmt.Errorf("interface %q embeds an interface from another package at %s; declare a local alias interface instead",
				name, fset.Position(field.Pos()))
		default:
			return nil, fmt.Errorf("interface %q: unsupported embedded type at %s",
				name, fset.Position(field.Pos()))
		}
	}
	return methods, nil
}

// collectQualifiers gathers the package qualifiers (pkg in pkg.Type) that
// appear anywhere in the method signatures, so only the owner imports the
// generated file actually needs are carried over.
func collectQualifiers(methods []ifaceMethod) map[string]bool {
	qualifiers := make(map[string]bool)
	for _, m := range methods {
		ast.Inspect(m.sig, func(n ast.Node) bool {
			sel, ok := n.(*ast.SelectorExpr)
			if !ok {
				return true
			}
			if ident, ok := sel.X.(*ast.Ident); ok {
				qualifiers[ident.Name] = true
			}
			return true
		})
	}
	return qualifiers
}

// importIdent returns the identifier an import binds in the file.
func importIdent(imp ImportSpec) string {
	if imp.Alias != "" {
		return imp.Alias
	}
	// Import paths always use forward slashes, even on Windows.
	return path.Base(strings.TrimSpace(imp.Path))
}

// resolveImports builds the generated file's import list: the owner
// imports matching a referenced qualifier, plus the adapter package under
// a collision-free identifier.
func resolveImports(
	ownerImports []*ast.ImportSpec,
	qualifiers map[string]bool,
	handlerPkg string,
) ([]ImportSpec, string, error) {
	owner := make([]ImportSpec, 0, len(ownerImports))
	for _, imp := range ownerImports {
		spec := ImportSpec{Path: strings.Trim(imp.Path.Value, `"`)}
		if imp.Name != nil {
			spec.Alias = imp.Name.Name
		}
		owner = append(owner, spec)
	}

	var finalImports []ImportSpec
	matched := make(map[string]bool)
	for _, imp := range owner {
		ident := importIdent(imp)
		if qualifiers[ident] {
			finalImports = append(finalImports, imp)
			matched[ident] = true
		}
	}
	for q := range qualifiers {
		if !matched[q] {
			return nil, "", fmt.Errorf(
				"signature references qualifier %q but the owner file has no matching import", q)
		}
	}

	// The adapter package may already be imported by the owner file.
	for _, imp := range finalImports {
		if imp.Path == handlerPkg {
			return finalImports, importIdent(imp), nil
		}
	}

	adapterIdent := "adapter"
	taken := func(ident string) bool {
		for _, imp := range finalImports {
			if importIdent(imp) == ident {
				return true
			}
		}
		return false
	}
	if taken(adapterIdent) {
		adapterIdent = "goadapt"
		if taken(adapterIdent) {
			return nil, "", fmt.Errorf(
				"cannot import %s: identifiers \"adapter\" and \"goadapt\" are both taken by signature imports", handlerPkg)
		}
	}

	spec := ImportSpec{Path: handlerPkg}
	if adapterIdent != path.Base(handlerPkg) {
		spec.Alias = adapterIdent
	}
	return append(finalImports, spec), adapterIdent, nil
}

// renderMethod turns a parsed signature into the template's view of one
// forwarding method. Parameters get fresh names (p0, p1, ...) so blank or
// absent names in the declaration never collide with router locals.
func renderMethod(fset *token.FileSet, m ifaceMethod) (routerMethod, error) {
	var params []string
	var paramNames []string

	if m.sig.Params != nil {
		for _, field := range m.sig.Params.List {
			count := len(field.Names)
			if count == 0 {
				count = 1
			}
			for i := 0; i < count; i++ {
				typeSrc, err := renderType(fset, field.Type)
				if err != nil {
					return routerMethod{}, err
				}
				pname := fmt.Sprintf("p%d", len(paramNames))
				params = append(params, pname+" "+typeSrc)
				paramNames = append(paramNames, pname)
			}
		}
	}

	var results []string
	if m.sig.Results != nil {
		for _, field := range m.sig.Results.List {
			count := len(field.Names)
			if count == 0 {
				count = 1
			}
			typeSrc, err := renderType(fset, field.Type)
			if err != nil {
				return routerMethod{}, err
			}
			for i := 0; i < count; i++ {
				results = append(results, typeSrc)
			}
		}
	}

	returns := make([]string, len(results))
	for i := range results {
		returns[i] = fmt.Sprintf("res%d", i)
	}

	resultList := ""
	switch len(results) {
	case 0:
	case 1:
		resultList = " " + results[0]
	default:
		resultList = " (" + strings.Join(results, ", ") + ")"
	}

	return routerMethod{
		Name:       m.name,
		ParamList:  strings.Join(params, ", "),
		ParamNames: paramNames,
		Results:    results,
		ResultList: resultList,
		ReturnList: strings.Join(returns, ", "),
	}, nil
}

// renderType prints a type expression back to source form. An Ellipsis is
// rendered as "...T"; the generated body still forwards the bundle as the
// single slice parameter it is inside the method.
func renderType(fset *token.FileSet, expr ast.Expr) (string, error) {
	var buf bytes.Buffer
	if err := printer.Fprint(&buf, fset, expr); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// genTemplate is the Go source template used to generate the router code.
var genTemplate = template.Must(
	template.New("adaptgen").Parse(`// Code generated by adaptgen; DO NOT EDIT.

package {{.Package}}

import (
{{- range .Imports}}
	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{- end}}
)

// {{.RouterName}} implements {{.IfaceName}} by forwarding every call to
// an adapter handler.
type {{.RouterName}} struct {
	h *{{.AdapterIdent}}.Handler[{{.IfaceName}}]
}

// New{{.RouterName}} wraps a handler in the router proxy.
func New{{.RouterName}}(h *{{.AdapterIdent}}.Handler[{{.IfaceName}}]) {{.IfaceName}} {
	return &{{.RouterName}}{h: h}
}

var _ {{.IfaceName}} = (*{{.RouterName}})(nil)
{{range .Methods}}
func (r *{{$.RouterName}}) {{.Name}}({{.ParamList}}){{.ResultList}} {
{{- if .Results}}
	out, err := r.h.Call(r, "{{.Name}}"{{range .ParamNames}}, {{.}}{{end}})
	if err != nil {
		panic(err)
	}
{{- range $i, $t := .Results}}
	res{{$i}}, _ := out[{{$i}}].({{$t}})
{{- end}}
	return {{.ReturnList}}
{{- else}}
	if _, err := r.h.Call(r, "{{.Name}}"{{range .ParamNames}}, {{.}}{{end}}); err != nil {
		panic(err)
	}
{{- end}}
}
{{end -}}
`),
)

// tempFile abstracts an os.File for testability.
type tempFile interface {
	Name() string
	Write([]byte) (int, error)
	Close() error
}

// File operation hooks, overridden in tests.
var (
	createTempFile = func(dir, pattern string) (tempFile, error) { return os.CreateTemp(dir, pattern) }
	chmodFile      = os.Chmod
	renameFile     = os.Rename
	removeFile     = os.Remove
)

// writeFileAtomic writes a file atomically.
//
// It writes to a temporary file in the same directory and then renames it
// over the target path, ensuring readers never observe partial writes.
func writeFileAtomic(targetPath string, data []byte, perm os.FileMode) (err error) {
	targetDir := filepath.Dir(targetPath)

	tmpFile, err := createTempFile(targetDir, filepath.Base(targetPath)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()

	defer func() {
		if err != nil {
			_ = removeFile(tmpPath)
		}
	}()

	if _, err = tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return err
	}
	if err = tmpFile.Close(); err != nil {
		return err
	}
	if err = chmodFile(tmpPath, perm); err != nil {
		return err
	}
	if err = renameFile(tmpPath, targetPath); err != nil {
		return err
	}
	return nil
}

// must panics if err is non-nil.
func must(err error) {
	if err != nil {
		panic(err)
	}
}
