package adquery

import "strconv"

// Binder выдает позиционные плейсхолдеры ($1, $2, ...) и накапливает
// привязанные значения для одного собираемого запроса. Все плейсхолдеры
// запроса должны выдаваться одним Binder — так индексы не расходятся
// со списком значений.
type Binder struct {
	args []any
}

// Bind добавляет значение в список параметров и возвращает его плейсхолдер
func (b *Binder) Bind(value any) string {
	b.args = append(b.args, value)
	return "$" + strconv.Itoa(len(b.args))
}

// Args возвращает накопленные значения в порядке выдачи плейсхолдеров
func (b *Binder) Args() []any {
	return b.args
}

// Len возвращает количество привязанных значений
func (b *Binder) Len() int {
	return len(b.args)
}
