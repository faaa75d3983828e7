package main

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/google/shlex"
	"golang.org/x/image/colornames"

	"github.com/flxzt/pxtogether/internal/domain"
	"github.com/flxzt/pxtogether/internal/editor"
	"github.com/flxzt/pxtogether/internal/service"
)

// directive 是脚本中一行解析后的结果。msg 为 nil 时表示驱动程序自身的动作。
type directive struct {
	msg   service.Message
	print bool
	list  bool
	wait  bool
	// history 非空时列出该文件的归档，最多 limit 条
	history string
	limit   int
}

// parseLine 解析一行脚本。空行和注释返回 ok=false。
func parseLine(line string) (d directive, ok bool, err error) {
	fields, err := shlex.Split(line)
	if err != nil {
		return directive{}, false, fmt.Errorf("tokenize %q: %w", line, err)
	}
	if len(fields) == 0 {
		return directive{}, false, nil
	}
	name, args := strings.ToLower(fields[0]), fields[1:]

	switch name {
	case "down", "move":
		if len(args) < 2 || len(args) > 3 {
			return directive{}, false, fmt.Errorf("%s: expected <x> <y> [button]", name)
		}
		pos, err := parsePoint(args[0], args[1])
		if err != nil {
			return directive{}, false, fmt.Errorf("%s: %w", name, err)
		}
		kind, button := editor.PointerMove, editor.ButtonNone
		if name == "down" {
			kind, button = editor.PointerDown, editor.ButtonPrimary
		}
		if len(args) == 3 {
			if button, err = parseButton(args[2]); err != nil {
				return directive{}, false, fmt.Errorf("%s: %w", name, err)
			}
		}
		return pointer(kind, button, pos), true, nil

	case "up":
		if len(args) > 1 {
			return directive{}, false, fmt.Errorf("up: expected [button]")
		}
		button := editor.ButtonPrimary
		if len(args) == 1 {
			if button, err = parseButton(args[0]); err != nil {
				return directive{}, false, fmt.Errorf("up: %w", err)
			}
		}
		return pointer(editor.PointerUp, button, editor.Point{}), true, nil

	case "put":
		if len(args) < 2 || len(args) > 4 {
			return directive{}, false, fmt.Errorf("put: expected <column> <row> [color] [record]")
		}
		column, err := strconv.Atoi(args[0])
		if err != nil {
			return directive{}, false, fmt.Errorf("put: invalid column %q", args[0])
		}
		row, err := strconv.Atoi(args[1])
		if err != nil {
			return directive{}, false, fmt.Errorf("put: invalid row %q", args[1])
		}
		msg := service.PutPixelMsg{Column: column, Row: row, Pixel: domain.NewPixel(domain.DefaultBrush)}
		if len(args) >= 3 {
			c, err := parseColor(args[2])
			if err != nil {
				return directive{}, false, fmt.Errorf("put: %w", err)
			}
			msg.Pixel = domain.NewPixel(c)
		}
		if len(args) == 4 {
			if args[3] != "record" {
				return directive{}, false, fmt.Errorf("put: unexpected %q", args[3])
			}
			msg.Record = true
		}
		return directive{msg: msg}, true, nil

	case "record", "undo", "clear", "print", "list", "wait":
		if len(args) != 0 {
			return directive{}, false, fmt.Errorf("%s: takes no arguments", name)
		}
		switch name {
		case "record":
			return directive{msg: service.RecordMsg{}}, true, nil
		case "undo":
			return directive{msg: service.UndoMsg{}}, true, nil
		case "clear":
			return directive{msg: service.ClearMsg{}}, true, nil
		case "print":
			return directive{print: true}, true, nil
		case "list":
			return directive{list: true}, true, nil
		default:
			return directive{wait: true}, true, nil
		}

	case "color":
		if len(args) != 1 {
			return directive{}, false, fmt.Errorf("color: expected <name|#rrggbb>")
		}
		c, err := parseColor(args[0])
		if err != nil {
			return directive{}, false, fmt.Errorf("color: %w", err)
		}
		return directive{msg: service.SetBrushMsg{Color: c}}, true, nil

	case "red", "green", "blue":
		if len(args) != 1 {
			return directive{}, false, fmt.Errorf("%s: expected <0..1>", name)
		}
		v, err := strconv.ParseFloat(args[0], 32)
		if err != nil {
			return directive{}, false, fmt.Errorf("%s: invalid value %q", name, args[0])
		}
		channel := map[string]service.Channel{"red": service.Red, "green": service.Green, "blue": service.Blue}[name]
		return directive{msg: service.ChangeColorMsg{Channel: channel, Value: float32(v)}}, true, nil

	case "history":
		if len(args) < 1 || len(args) > 2 {
			return directive{}, false, fmt.Errorf("history: expected <name> [limit]")
		}
		d := directive{history: args[0]}
		if len(args) == 2 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n <= 0 {
				return directive{}, false, fmt.Errorf("history: invalid limit %q", args[1])
			}
			d.limit = n
		}
		return d, true, nil

	case "open", "save", "export":
		if len(args) > 1 {
			return directive{}, false, fmt.Errorf("%s: expected [name]", name)
		}
		var file string
		if len(args) == 1 {
			file = args[0]
		}
		switch name {
		case "open":
			return directive{msg: service.OpenFileMsg{Name: file}}, true, nil
		case "save":
			return directive{msg: service.SaveFileMsg{Name: file}}, true, nil
		default:
			return directive{msg: service.ExportMsg{Name: file}}, true, nil
		}
	}
	return directive{}, false, fmt.Errorf("unknown command %q", fields[0])
}

func pointer(kind editor.PointerKind, button editor.Button, pos editor.Point) directive {
	return directive{msg: service.PointerMsg{Event: editor.PointerEvent{Kind: kind, Button: button, Position: pos}}}
}

func parsePoint(xs, ys string) (editor.Point, error) {
	x, err := strconv.ParseFloat(xs, 32)
	if err != nil {
		return editor.Point{}, fmt.Errorf("invalid x %q", xs)
	}
	y, err := strconv.ParseFloat(ys, 32)
	if err != nil {
		return editor.Point{}, fmt.Errorf("invalid y %q", ys)
	}
	return editor.Point{X: float32(x), Y: float32(y)}, nil
}

func parseButton(s string) (editor.Button, error) {
	switch strings.ToLower(s) {
	case "primary", "left":
		return editor.ButtonPrimary, nil
	case "secondary", "right":
		return editor.ButtonSecondary, nil
	}
	return editor.ButtonNone, fmt.Errorf("invalid button %q", s)
}

// parseColor 接受 CSS 颜色名、#rrggbb 或 #rrggbbaa。
// '#' 在脚本中是注释符，十六进制颜色需要加引号，也可以省略 '#'。
func parseColor(s string) (domain.PixelColor, error) {
	spec := strings.ToLower(strings.TrimSpace(s))
	if spec == "" {
		return domain.PixelColor{}, fmt.Errorf("color cannot be empty")
	}
	if spec == "transparent" {
		return domain.Transparent, nil
	}
	if c, ok := colornames.Map[spec]; ok {
		return domain.ColorFrom(c), nil
	}
	hex := strings.TrimPrefix(spec, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return domain.PixelColor{}, fmt.Errorf("invalid color %q", s)
	}
	var parts [4]uint8
	parts[3] = 255
	for i := 0; i*2 < len(hex); i++ {
		v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return domain.PixelColor{}, fmt.Errorf("invalid color %q", s)
		}
		parts[i] = uint8(v)
	}
	return domain.ColorFrom(color.NRGBA{R: parts[0], G: parts[1], B: parts[2], A: parts[3]}), nil
}
