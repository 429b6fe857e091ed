package kifu

import (
	"database/sql"
	"fmt"
	"github.com/avicd/go-kifu/builder"
	"github.com/avicd/go-kifu/expr"
	"github.com/avicd/go-kifu/logger"
	"github.com/avicd/go-kifu/session"
	"github.com/avicd/go-utilx/refx"
	"reflect"
	"strings"
)

type Kifu struct {
	Config *session.Config
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

func New(config *session.Config, builders ...builder.Builder) *Kifu {
	ins := &Kifu{Config: config}
	if len(builders) > 0 {
		for _, bdl := range builders {
			bdl.Build(config)
		}
	} else {
		bdl := &builder.XmlBuilder{}
		bdl.Build(config)
	}
	return ins
}

// AsMapper fills every func field of dest with the statement of the same
// name. The namespace defaults to the package path and type name of dest,
// dots instead of slashes.
func (it *Kifu) AsMapper(dest any, nss ...string) {
	if !refx.IsStruct(dest) {
		logger.Fatal("dest is not a struct")
	}
	var el reflect.Value
	if target, ok := refx.AddrAbleOf(dest); ok {
		target.Set(refx.NewOf(target))
		el = refx.Indirect(target)
	} else {
		logger.Fatal("dest is unaddressable")
	}
	var ns string
	if len(nss) > 0 {
		ns = nss[0]
		if ns == "" {
			logger.Warnf("namespace provided is empty, fallback to PkgPath")
		}
	}
	if ns == "" {
		ns = NamespaceOf(el.Type())
	}
	if !it.Config.HasNs(ns) {
		logger.Fatalf("missing mapper namespace='%s'", ns)
	}
	for i := 0; i < el.Type().NumField(); i++ {
		tf := el.Type().Field(i)
		if !tf.IsExported() || tf.Type.Kind() != reflect.Func {
			continue
		}
		id := ns + "." + tf.Name
		stmt := it.Config.GetStmt(id)
		if stmt == nil {
			logger.Warnf("missing statement id='%s', ignored", id)
			continue
		}
		el.Field(i).Set(stmt.ProxyOfField(tf).Invoker())
	}
}

func NamespaceOf(tp reflect.Type) string {
	tp = refx.IndirectType(tp)
	return strings.ReplaceAll(tp.PkgPath(), "/", ".") + "." + tp.Name()
}

func (it *Kifu) AsProxy(dest any, id string) {
	stmt := it.Config.GetStmt(id)
	if stmt == nil {
		logger.Fatalf("missing statement id='%s'", id)
	}
	stmt.Scan(dest)
}

// Tx runs fn in one transaction. Mapper calls made by fn on the same
// goroutine join it; an error or panic from fn rolls it back.
func (it *Kifu) Tx(fn func() error) error {
	return it.TxWith(nil, fn)
}

func (it *Kifu) TxWith(txOpts *sql.TxOptions, fn func() error) (err error) {
	sess := it.Config.Factory().OpenTxWith(txOpts)
	defer func() {
		if rc := recover(); rc != nil {
			sess.Rollback()
			err = session.AsError(rc)
			logger.Errorf("transaction rolled back: %v", err)
		}
	}()
	if err = fn(); err != nil {
		sess.Rollback()
		return err
	}
	return sess.Commit()
}

func (it *Kifu) StmtOf(script string, nss ...string) *session.Stmt {
	stNs := session.NameSpace
	if len(nss) > 0 {
		stNs = nss[0]
	}
	bdl := &builder.RawBuilder{Script: script, Ns: stNs}
	bdl.Build(it.Config)
	return bdl.Stmt
}

// StmtOfExpr turns an expression tree into a statement. Given an id the
// statement is registered and can be looked up like a mapper statement.
func (it *Kifu) StmtOfExpr(node expr.Method, id ...string) *session.Stmt {
	bdl := &builder.ExprBuilder{Node: node}
	if len(id) > 0 {
		bdl.Id = id[0]
	}
	bdl.Build(it.Config)
	return bdl.Stmt
}

// Select runs a SELECT tree and scans the rows into dest, a pointer to a
// struct, map, slice or basic value.
func (it *Kifu) Select(dest any, node *expr.SelectStmt) error {
	target := reflect.ValueOf(dest)
	if target.Kind() != reflect.Pointer || target.IsNil() {
		return fmt.Errorf("kifu: select dest must be a non-nil pointer, got %T", dest)
	}
	out := target.Elem().Type()
	fnType := reflect.FuncOf(nil, []reflect.Type{out, errorType}, false)
	results := it.StmtOfExpr(node).ProxyOf(fnType).Invoker().Call(nil)
	if err, _ := results[1].Interface().(error); err != nil {
		return err
	}
	target.Elem().Set(results[0])
	return nil
}

// Exec runs an INSERT, UPDATE or DELETE tree and returns the affected rows.
func (it *Kifu) Exec(node expr.Method) (int64, error) {
	if node.Method() == expr.SelectMethod {
		return 0, fmt.Errorf("kifu: exec of a select statement")
	}
	var run func() (int64, error)
	it.StmtOfExpr(node).Scan(&run)
	return run()
}
