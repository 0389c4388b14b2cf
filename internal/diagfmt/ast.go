package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"hulk/internal/ast"
	"hulk/internal/source"
)

type ASTNodeOutput struct {
	Type     string          `json:"type"`
	Span     source.Span     `json:"span"`
	Text     string          `json:"text,omitempty"`
	Children []ASTNodeOutput `json:"children,omitempty"`
	Fields   map[string]any  `json:"fields,omitempty"`
}

// FormatASTPretty writes the parse tree of fileID as an indented tree.
func FormatASTPretty(w io.Writer, builder *ast.Builder, fileID ast.FileID, fs *source.FileSet) error {
	file := builder.Files.Get(fileID)
	if file == nil {
		return fmt.Errorf("file not found")
	}

	fmt.Fprintf(w, "File (span: %s)\n", formatSpan(file.Span, fs))

	for i, itemID := range file.Items {
		branch, prefix := treeBranch("", i == len(file.Items)-1)
		fmt.Fprint(w, branch)
		formatItemPretty(w, builder, itemID, fs, prefix)
	}

	return nil
}

// FormatASTJSON writes the parse tree of fileID as indented JSON.
func FormatASTJSON(w io.Writer, builder *ast.Builder, fileID ast.FileID) error {
	file := builder.Files.Get(fileID)
	if file == nil {
		return fmt.Errorf("file not found")
	}

	var children []ASTNodeOutput
	for _, itemID := range file.Items {
		children = append(children, itemJSON(builder, itemID))
	}

	output := ASTNodeOutput{
		Type:     "File",
		Span:     file.Span,
		Children: children,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func treeBranch(prefix string, last bool) (branch, childPrefix string) {
	if last {
		return prefix + "└─ ", prefix + "   "
	}
	return prefix + "├─ ", prefix + "│  "
}

func formatSpan(sp source.Span, fs *source.FileSet) string {
	start, end := fs.Resolve(sp)
	return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
}

func formatItemPretty(w io.Writer, b *ast.Builder, id ast.ItemID, fs *source.FileSet, prefix string) {
	item := b.Items.Get(id)
	if item == nil {
		fmt.Fprintln(w, "nil item")
		return
	}

	switch item.Kind {
	case ast.ItemFunction:
		fn, _ := b.Items.Function(id)
		fmt.Fprintf(w, "Function %s%s (span: %s)\n", b.Lookup(fn.Name), formatSignature(b, fn), formatSpan(item.Span, fs))
		branch, childPrefix := treeBranch(prefix, true)
		fmt.Fprint(w, branch)
		formatExprPretty(w, b, fn.Body, fs, childPrefix)
	case ast.ItemType:
		ty, _ := b.Items.Type(id)
		header := "Type " + b.Lookup(ty.Name)
		if ty.Parent.IsValid() {
			header += " inherits " + b.Lookup(ty.Parent)
		}
		fmt.Fprintf(w, "%s (span: %s)\n", header, formatSpan(item.Span, fs))

		total := len(ty.ParentArgs) + len(ty.Attributes) + len(ty.Methods)
		n := 0
		for _, arg := range ty.ParentArgs {
			n++
			branch, childPrefix := treeBranch(prefix, n == total)
			fmt.Fprint(w, branch+"ParentArg: ")
			formatExprPretty(w, b, arg, fs, childPrefix)
		}
		for _, attr := range ty.Attributes {
			n++
			branch, childPrefix := treeBranch(prefix, n == total)
			fmt.Fprintf(w, "%sAttribute %s = ", branch, b.Lookup(attr.Name))
			formatExprPretty(w, b, attr.Init, fs, childPrefix)
		}
		for _, m := range ty.Methods {
			n++
			branch, childPrefix := treeBranch(prefix, n == total)
			fmt.Fprintf(w, "%sMethod %s%s\n", branch, b.Lookup(m.Name), formatSignature(b, &m))
			bodyBranch, bodyPrefix := treeBranch(childPrefix, true)
			fmt.Fprint(w, bodyBranch)
			formatExprPretty(w, b, m.Body, fs, bodyPrefix)
		}
	case ast.ItemExprStmt:
		stmt, _ := b.Items.ExprStmt(id)
		fmt.Fprintf(w, "ExprStmt (span: %s)\n", formatSpan(item.Span, fs))
		branch, childPrefix := treeBranch(prefix, true)
		fmt.Fprint(w, branch)
		formatExprPretty(w, b, stmt.Expr, fs, childPrefix)
	}
}

func formatSignature(b *ast.Builder, fn *ast.FuncDecl) string {
	sig := "("
	for i, p := range fn.Params {
		if i > 0 {
			sig += ", "
		}
		sig += b.Lookup(p.Name)
		if p.Type.IsValid() {
			sig += ": " + b.Lookup(p.Type)
		}
	}
	sig += ")"
	if fn.ReturnType.IsValid() {
		sig += ": " + b.Lookup(fn.ReturnType)
	}
	return sig
}

func formatExprPretty(w io.Writer, b *ast.Builder, id ast.ExprID, fs *source.FileSet, prefix string) {
	expr := b.Exprs.Get(id)
	if expr == nil {
		fmt.Fprintln(w, "nil expr")
		return
	}

	head, children := exprParts(b, id)
	fmt.Fprintf(w, "%s (span: %s)\n", head, formatSpan(expr.Span, fs))
	for i, child := range children {
		branch, childPrefix := treeBranch(prefix, i == len(children)-1)
		if child.label != "" {
			fmt.Fprint(w, branch+child.label+": ")
		} else {
			fmt.Fprint(w, branch)
		}
		formatExprPretty(w, b, child.id, fs, childPrefix)
	}
}

type exprChild struct {
	label string
	id    ast.ExprID
}

// exprParts returns the one-line head of an expression node plus its labeled
// children in source order.
func exprParts(b *ast.Builder, id ast.ExprID) (string, []exprChild) {
	expr := b.Exprs.Get(id)
	switch expr.Kind {
	case ast.ExprIdent:
		data, _ := b.Exprs.Ident(id)
		return "Ident " + b.Lookup(data.Name), nil
	case ast.ExprNumberLit:
		data, _ := b.Exprs.Number(id)
		return "Number " + strconv.FormatFloat(data.Value, 'g', -1, 64), nil
	case ast.ExprBoolLit:
		data, _ := b.Exprs.Bool(id)
		return "Bool " + strconv.FormatBool(data.Value), nil
	case ast.ExprStringLit:
		data, _ := b.Exprs.String(id)
		return "String " + strconv.Quote(b.Lookup(data.Value)), nil
	case ast.ExprUnary:
		data, _ := b.Exprs.Unary(id)
		return "Unary " + data.Op.String(), []exprChild{{"", data.Operand}}
	case ast.ExprBinary:
		data, _ := b.Exprs.Binary(id)
		return "Binary " + data.Op.String(), []exprChild{{"", data.Left}, {"", data.Right}}
	case ast.ExprCall:
		data, _ := b.Exprs.Call(id)
		children := make([]exprChild, 0, len(data.Args))
		for _, arg := range data.Args {
			children = append(children, exprChild{"", arg})
		}
		return "Call " + b.Lookup(data.Callee), children
	case ast.ExprMethodCall:
		data, _ := b.Exprs.MethodCall(id)
		children := []exprChild{{"recv", data.Recv}}
		for _, arg := range data.Args {
			children = append(children, exprChild{"", arg})
		}
		return "MethodCall " + b.Lookup(data.Name), children
	case ast.ExprMember:
		data, _ := b.Exprs.Member(id)
		return "Member " + b.Lookup(data.Name), []exprChild{{"recv", data.Recv}}
	case ast.ExprNew:
		data, _ := b.Exprs.New(id)
		children := make([]exprChild, 0, len(data.Args))
		for _, arg := range data.Args {
			children = append(children, exprChild{"", arg})
		}
		return "New " + b.Lookup(data.TypeName), children
	case ast.ExprPrint:
		data, _ := b.Exprs.Print(id)
		return "Print", []exprChild{{"", data.Arg}}
	case ast.ExprBlock:
		data, _ := b.Exprs.Block(id)
		children := make([]exprChild, 0, len(data.Exprs))
		for _, e := range data.Exprs {
			children = append(children, exprChild{"", e})
		}
		return "Block", children
	case ast.ExprIf:
		data, _ := b.Exprs.If(id)
		var children []exprChild
		for _, br := range data.Branches {
			children = append(children, exprChild{"cond", br.Cond}, exprChild{"then", br.Body})
		}
		children = append(children, exprChild{"else", data.Else})
		return "If", children
	case ast.ExprWhile:
		data, _ := b.Exprs.While(id)
		return "While", []exprChild{{"cond", data.Cond}, {"body", data.Body}}
	case ast.ExprFor:
		data, _ := b.Exprs.For(id)
		return "For " + b.Lookup(data.Var), []exprChild{
			{"start", data.Start}, {"end", data.End}, {"body", data.Body},
		}
	case ast.ExprLet:
		data, _ := b.Exprs.Let(id)
		var children []exprChild
		for _, bind := range data.Bindings {
			children = append(children, exprChild{b.Lookup(bind.Name), bind.Init})
		}
		children = append(children, exprChild{"in", data.Body})
		return "Let", children
	case ast.ExprAssign:
		data, _ := b.Exprs.Assign(id)
		return "Assign", []exprChild{{"target", data.Target}, {"value", data.Value}}
	default:
		return "Unknown", nil
	}
}

func itemJSON(b *ast.Builder, id ast.ItemID) ASTNodeOutput {
	item := b.Items.Get(id)
	if item == nil {
		return ASTNodeOutput{Type: "Invalid"}
	}

	switch item.Kind {
	case ast.ItemFunction:
		fn, _ := b.Items.Function(id)
		return ASTNodeOutput{
			Type: "Function",
			Span: item.Span,
			Text: b.Lookup(fn.Name),
			Fields: map[string]any{
				"params": paramsJSON(b, fn.Params),
				"return": b.Lookup(fn.ReturnType),
				"arrow":  fn.IsArrow,
			},
			Children: []ASTNodeOutput{exprJSON(b, fn.Body)},
		}
	case ast.ItemType:
		ty, _ := b.Items.Type(id)
		node := ASTNodeOutput{
			Type: "Type",
			Span: item.Span,
			Text: b.Lookup(ty.Name),
			Fields: map[string]any{
				"params": paramsJSON(b, ty.Params),
				"parent": b.Lookup(ty.Parent),
			},
		}
		for _, arg := range ty.ParentArgs {
			child := exprJSON(b, arg)
			child.Type = "ParentArg:" + child.Type
			node.Children = append(node.Children, child)
		}
		for _, attr := range ty.Attributes {
			node.Children = append(node.Children, ASTNodeOutput{
				Type:     "Attribute",
				Text:     b.Lookup(attr.Name),
				Children: []ASTNodeOutput{exprJSON(b, attr.Init)},
			})
		}
		for _, m := range ty.Methods {
			node.Children = append(node.Children, ASTNodeOutput{
				Type: "Method",
				Text: b.Lookup(m.Name),
				Fields: map[string]any{
					"params": paramsJSON(b, m.Params),
					"return": b.Lookup(m.ReturnType),
					"arrow":  m.IsArrow,
				},
				Children: []ASTNodeOutput{exprJSON(b, m.Body)},
			})
		}
		return node
	case ast.ItemExprStmt:
		stmt, _ := b.Items.ExprStmt(id)
		return ASTNodeOutput{
			Type:     "ExprStmt",
			Span:     item.Span,
			Children: []ASTNodeOutput{exprJSON(b, stmt.Expr)},
		}
	default:
		return ASTNodeOutput{Type: "Unknown", Span: item.Span}
	}
}

func paramsJSON(b *ast.Builder, params []ast.Param) []map[string]string {
	out := make([]map[string]string, 0, len(params))
	for _, p := range params {
		out = append(out, map[string]string{
			"name": b.Lookup(p.Name),
			"type": b.Lookup(p.Type),
		})
	}
	return out
}

func exprJSON(b *ast.Builder, id ast.ExprID) ASTNodeOutput {
	expr := b.Exprs.Get(id)
	if expr == nil {
		return ASTNodeOutput{Type: "Invalid"}
	}

	head, children := exprParts(b, id)
	node := ASTNodeOutput{
		Type: head,
		Span: expr.Span,
	}
	for _, child := range children {
		childNode := exprJSON(b, child.id)
		if child.label != "" {
			childNode.Type = child.label + ":" + childNode.Type
		}
		node.Children = append(node.Children, childNode)
	}
	return node
}
