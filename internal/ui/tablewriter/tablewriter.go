package tablewriter

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Column 表格列定义
type Column struct {
	Name         string // 列名
	SeparateLine bool   // 是否单独一行显示
	RightAlign   bool   // 是否右对齐
}

type columnCfg struct {
	rightAlign bool
}

// ColumnOption 列选项函数类型
type ColumnOption func(*columnCfg)

// RightAlign 返回右对齐选项
func RightAlign() ColumnOption {
	return func(c *columnCfg) {
		c.rightAlign = true
	}
}

// TableWriter 表格写入器
// 用于格式化输出表格数据
type TableWriter struct {
	cols []Column
	rows []map[string]string
}

// Col 创建普通列
func Col(name string, opts ...ColumnOption) Column {
	cfg := &columnCfg{}
	for _, o := range opts {
		o(cfg)
	}
	return Column{
		Name:       name,
		RightAlign: cfg.rightAlign,
	}
}

// NewLineCol 创建单独行列
// 单独行列不占表头，仅在行下方以 "名称: 值" 形式输出
func NewLineCol(name string) Column {
	return Column{
		Name:         name,
		SeparateLine: true,
	}
}

// New 创建新的表格写入器
func New(cols ...Column) *TableWriter {
	return &TableWriter{
		cols: cols,
	}
}

// Write 写入一行数据
func (w *TableWriter) Write(r map[string]interface{}) {
	row := make(map[string]string, len(r))
	for k, v := range r {
		row[k] = fmt.Sprint(v)
	}
	w.rows = append(w.rows, row)
}

// Flush 将表格数据输出到指定的写入器
func (w *TableWriter) Flush(out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	// 收集非单独行的列作为表头
	headerCols := make([]string, 0, len(w.cols))
	for _, col := range w.cols {
		if col.SeparateLine {
			continue
		}
		headerCols = append(headerCols, col.Name)
	}
	if len(headerCols) > 0 {
		if _, err := fmt.Fprintln(tw, strings.Join(headerCols, "\t")); err != nil {
			return err
		}
	}

	for _, row := range w.rows {
		fields := make([]string, 0, len(headerCols))
		for _, col := range w.cols {
			if col.SeparateLine {
				continue
			}
			fields = append(fields, row[col.Name])
		}
		if len(fields) > 0 {
			if _, err := fmt.Fprintln(tw, strings.Join(fields, "\t")); err != nil {
				return err
			}
		}

		for _, col := range w.cols {
			if !col.SeparateLine {
				continue
			}
			if val := row[col.Name]; val != "" {
				if _, err := fmt.Fprintf(tw, "  %s:\t%s\n", col.Name, val); err != nil {
					return err
				}
			}
		}
	}

	return tw.Flush()
}
