package database

import (
	"database/sql"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode"
)

// Scanner copies result rows into structs, matching columns to fields by
// `db` tag, then by field name, then by snake/camel conversion.
type Scanner struct{}

func NewScanner() *Scanner {
	return &Scanner{}
}

// ScanOne reads the first row into dest, a pointer to struct. It returns
// sql.ErrNoRows when the result is empty.
func (s *Scanner) ScanOne(rows *sql.Rows, dest any) error {
	destValue := reflect.ValueOf(dest)

	if destValue.Kind() != reflect.Ptr || destValue.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("dest must be a pointer to struct")
	}

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return sql.ErrNoRows
	}

	return s.scanRow(rows, destValue.Elem())
}

// ScanAll appends every row to dest, a pointer to a slice of structs or of
// struct pointers.
func (s *Scanner) ScanAll(rows *sql.Rows, dest any) error {
	destValue := reflect.ValueOf(dest)

	if destValue.Kind() != reflect.Ptr || destValue.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("dest must be a pointer to slice")
	}

	sliceValue := destValue.Elem()
	elemType := sliceValue.Type().Elem()
	isPtr := elemType.Kind() == reflect.Ptr

	if isPtr {
		elemType = elemType.Elem()
	}

	if elemType.Kind() != reflect.Struct {
		return fmt.Errorf("slice elements must be structs or pointers to structs")
	}

	for rows.Next() {
		elemValue := reflect.New(elemType)

		if err := s.scanRow(rows, elemValue.Elem()); err != nil {
			return err
		}

		if isPtr {
			sliceValue.Set(reflect.Append(sliceValue, elemValue))
		} else {
			sliceValue.Set(reflect.Append(sliceValue, elemValue.Elem()))
		}
	}

	return rows.Err()
}

func (s *Scanner) scanRow(rows *sql.Rows, destElem reflect.Value) error {
	columns, err := rows.Columns()

	if err != nil {
		return err
	}

	scanArgs := make([]any, len(columns))
	for i := range scanArgs {
		scanArgs[i] = new(any)
	}

	if err := rows.Scan(scanArgs...); err != nil {
		return err
	}

	destType := destElem.Type()

	for i, colName := range columns {
		field, ok := s.findStructField(destType, colName)

		if !ok || s.shouldSkipField(field) {
			continue
		}

		val := *(scanArgs[i].(*any))

		if err := s.setFieldValue(destElem.FieldByIndex(field.Index), val); err != nil {
			return fmt.Errorf("column %s: %w", colName, err)
		}
	}

	return nil
}

func (s *Scanner) findStructField(structType reflect.Type, colName string) (reflect.StructField, bool) {
	colNameLower := strings.ToLower(colName)

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if tag := field.Tag.Get("db"); tag != "" && strings.ToLower(tag) == colNameLower {
			return field, true
		}
	}

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if field.Tag.Get("db") == "" && strings.ToLower(field.Name) == colNameLower {
			return field, true
		}
	}

	if field, found := structType.FieldByName(s.snakeToCamel(colName)); found {
		return field, true
	}

	snakeCaseName := s.camelToSnake(colName)
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if s.camelToSnake(field.Name) == snakeCaseName {
			return field, true
		}
	}

	return reflect.StructField{}, false
}

func (s *Scanner) snakeToCamel(snake string) string {
	parts := strings.Split(snake, "_")
	for i := range parts {
		if len(parts[i]) > 0 {
			parts[i] = strings.ToUpper(parts[i][:1]) + strings.ToLower(parts[i][1:])
		}
	}
	return strings.Join(parts, "")
}

func (s *Scanner) camelToSnake(camel string) string {
	var result []rune
	for i, r := range camel {
		if i > 0 && unicode.IsUpper(r) {
			result = append(result, '_')
		}
		result = append(result, unicode.ToLower(r))
	}
	return string(result)
}

func (s *Scanner) shouldSkipField(field reflect.StructField) bool {
	return field.Tag.Get("scan") == "skip"
}

func (s *Scanner) setFieldValue(field reflect.Value, val any) error {
	if !field.CanSet() {
		return fmt.Errorf("field cannot be set")
	}

	if val == nil {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}

	valValue := reflect.ValueOf(val)

	if valValue.Type().AssignableTo(field.Type()) {
		field.Set(valValue)
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		switch v := val.(type) {
		case string:
			field.SetString(v)
		case []byte:
			field.SetString(string(v))
		default:
			return fmt.Errorf("cannot assign %T to string", val)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		switch v := val.(type) {
		case int64:
			field.SetInt(v)
		case int32:
			field.SetInt(int64(v))
		case int:
			field.SetInt(int64(v))
		case []byte:
			n, err := strconv.ParseInt(string(v), 10, 64)
			if err != nil {
				return err
			}
			field.SetInt(n)
		default:
			return fmt.Errorf("cannot assign %T to %s", val, field.Kind())
		}
	case reflect.Bool:
		switch v := val.(type) {
		case bool:
			field.SetBool(v)
		case int64:
			field.SetBool(v != 0)
		default:
			return fmt.Errorf("cannot assign %T to bool", val)
		}
	case reflect.Float32, reflect.Float64:
		switch v := val.(type) {
		case float64:
			field.SetFloat(v)
		case int64:
			field.SetFloat(float64(v))
		default:
			return fmt.Errorf("cannot assign %T to %s", val, field.Kind())
		}
	default:
		return fmt.Errorf("unsupported field type %s", field.Type())
	}

	return nil
}
