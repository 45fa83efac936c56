package rss

import (
	"errors"
	"io"

	xpp "github.com/mmcdole/goxpp"
	"golang.org/x/net/html/charset"
)

var errNoRoot = errors.New("no root element")

// decodeTree はXML文書を汎用ツリーに変換する。
//
// 子要素を持つ要素はmap[string]any、葉要素はstringになる。
// 同名の兄弟要素が複数ある場合は[]anyにまとめる。属性は無視する。
// ルート要素と異なる名前空間の要素は "namespace:name" をキーとし、
// atom:link のような要素がlinkと衝突しないようにする。
func decodeTree(r io.Reader) (map[string]any, error) {
	p := xpp.NewXMLPullParser(r, true, charset.NewReaderLabel)

	for {
		event, err := p.Next()
		if err != nil {
			return nil, err
		}
		if event == xpp.EndDocument {
			return nil, errNoRoot
		}
		if event == xpp.StartTag {
			break
		}
	}

	rootSpace := p.Space
	rootName := p.Name

	value, err := decodeElement(p, rootSpace)
	if err != nil {
		return nil, err
	}

	return map[string]any{rootName: value}, nil
}

// decodeElement は開始タグの直後から対応する終了タグまでを読み取る。
func decodeElement(p *xpp.XMLPullParser, rootSpace string) (any, error) {
	var text []byte
	var children map[string]any

	for {
		event, err := p.Next()
		if err != nil {
			return nil, err
		}

		switch event {
		case xpp.StartTag:
			key := elementKey(p.Space, p.Name, rootSpace)
			child, err := decodeElement(p, rootSpace)
			if err != nil {
				return nil, err
			}
			if children == nil {
				children = make(map[string]any)
			}
			appendChild(children, key, child)
		case xpp.Text:
			text = append(text, p.Text...)
		case xpp.EndTag:
			if children != nil {
				return children, nil
			}
			return string(text), nil
		case xpp.EndDocument:
			return nil, io.ErrUnexpectedEOF
		}
	}
}

func elementKey(space, name, rootSpace string) string {
	if space == "" || space == rootSpace {
		return name
	}
	return space + ":" + name
}

func appendChild(children map[string]any, key string, value any) {
	existing, ok := children[key]
	if !ok {
		children[key] = value
		return
	}
	if list, ok := existing.([]any); ok {
		children[key] = append(list, value)
		return
	}
	children[key] = []any{existing, value}
}
