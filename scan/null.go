package scan

import (
	"database/sql"
	"fmt"
	"reflect"
	"strconv"
	"time"
)

// nullable scans a column into an addressable value. NULL leaves the zero
// value in place instead of failing.
type nullable struct {
	dest reflect.Value
}

func destOf(el reflect.Value) any {
	if el.Kind() == reflect.Interface {
		return el.Addr().Interface()
	}
	if _, ok := el.Addr().Interface().(sql.Scanner); ok {
		return el.Addr().Interface()
	}
	return &nullable{dest: el}
}

func (it *nullable) Scan(src any) error {
	dt := it.dest.Type()
	if src == nil {
		it.dest.Set(reflect.Zero(dt))
		return nil
	}
	switch val := src.(type) {
	case []byte:
		if it.dest.Kind() == reflect.String {
			it.dest.SetString(string(val))
			return nil
		}
		if dt == reflect.TypeOf(val) {
			it.dest.SetBytes(append([]byte(nil), val...))
			return nil
		}
		return it.parse(string(val))
	case string:
		if it.dest.Kind() == reflect.String {
			it.dest.SetString(val)
			return nil
		}
		return it.parse(val)
	case time.Time:
		if it.dest.Kind() == reflect.String {
			it.dest.SetString(val.Format(time.RFC3339Nano))
			return nil
		}
	case int64:
		if it.dest.Kind() == reflect.Bool {
			it.dest.SetBool(val != 0)
			return nil
		}
	}
	sv := reflect.ValueOf(src)
	if sv.Type().AssignableTo(dt) {
		it.dest.Set(sv)
		return nil
	}
	if isNumber(sv.Kind()) && isNumber(dt.Kind()) {
		it.dest.Set(sv.Convert(dt))
		return nil
	}
	return fmt.Errorf("scan: cannot assign %T to %s", src, dt)
}

func (it *nullable) parse(text string) error {
	dt := it.dest.Type()
	switch it.dest.Kind() {
	case reflect.Bool:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return err
		}
		it.dest.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(text, 10, dt.Bits())
		if err != nil {
			return err
		}
		it.dest.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(text, 10, dt.Bits())
		if err != nil {
			return err
		}
		it.dest.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(text, dt.Bits())
		if err != nil {
			return err
		}
		it.dest.SetFloat(f)
	default:
		if dt == reflect.TypeOf(time.Time{}) {
			for _, layout := range timeLayouts {
				if t, err := time.Parse(layout, text); err == nil {
					it.dest.Set(reflect.ValueOf(t))
					return nil
				}
			}
		}
		return fmt.Errorf("scan: cannot parse %q into %s", text, dt)
	}
	return nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func isNumber(kind reflect.Kind) bool {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
