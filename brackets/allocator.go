package brackets

// AllocateQualifierSlots делит qualifiersNeeded мест плей-офф между группами.
// Это НЕ пропорциональное распределение: каждая группа получает
// floor(qualifiersNeeded/численность групп), остаток по одному месту достаётся
// первым группам в порядке groupOrder. Затем квота каждой группы обрезается
// до её размера - группа не может выставить больше игроков, чем в ней есть.
// Пустой groupOrder даёт пустой результат.
func AllocateQualifierSlots(groupOrder []string, groupSizes map[string]int, qualifiersNeeded int) map[string]int {
	allocated := make(map[string]int, len(groupOrder))
	if len(groupOrder) == 0 || qualifiersNeeded <= 0 {
		return allocated
	}

	base := qualifiersNeeded / len(groupOrder)
	extra := qualifiersNeeded % len(groupOrder)

	for i, name := range groupOrder {
		count := base
		if i < extra {
			count++
		}
		if size := groupSizes[name]; count > size {
			count = size
		}
		allocated[name] = count
	}
	return allocated
}
