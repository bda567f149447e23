package input

import (
	"fmt"
	"strings"

	hook "github.com/robotn/gohook"

	"github.com/zoeyai/itemscope/pkg/region"
)

// KeyMap 把钩子键码翻译成按键名称
// 只有触发键需要稳定的名字，其余按键统一命名为 key:<键码>
type KeyMap struct {
	trigger     string
	triggerCode uint16
}

// NewKeyMap 按 gohook 的键名表解析触发键
func NewKeyMap(trigger string) (*KeyMap, error) {
	name := strings.ToLower(strings.TrimSpace(trigger))
	code, ok := hook.Keycode[name]
	if !ok {
		return nil, fmt.Errorf("未知的触发键: %s", trigger)
	}
	return &KeyMap{trigger: name, triggerCode: code}, nil
}

// Trigger 触发键名称
func (k *KeyMap) Trigger() string {
	return k.trigger
}

// Name 键码对应的名称
func (k *KeyMap) Name(keycode uint16) string {
	if keycode == k.triggerCode {
		return k.trigger
	}
	return fmt.Sprintf("key:%d", keycode)
}

// Translate 翻译一个钩子事件，无关事件返回 false
// gohook 的 KeyHold 对应物理按下，KeyDown 是字符输入事件，不参与手势
func (k *KeyMap) Translate(ev hook.Event) (region.Event, bool) {
	switch ev.Kind {
	case hook.MouseMove, hook.MouseDrag:
		return region.PointerMoved(int(ev.X), int(ev.Y)), true
	case hook.KeyHold:
		return region.KeyDown(k.Name(ev.Keycode)), true
	case hook.KeyUp:
		return region.KeyUp(k.Name(ev.Keycode)), true
	default:
		return region.Event{}, false
	}
}
