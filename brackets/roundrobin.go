package brackets

// Group - группа с игроками в порядке, в котором они были пожеребьёваны.
type Group struct {
	Name      string
	PlayerIDs []int
}

// GroupPair - одна пара кругового этапа.
type GroupPair struct {
	GroupName string
	Player1ID int
	Player2ID int
}

// RoundRobinPairs строит пары кругового этапа: внутри каждой группы каждая
// неупорядоченная пара различных игроков встречается ровно один раз
// (n*(n-1)/2 пар на группу). Группы размера 0 и 1 пар не дают. Порядок пар
// детерминирован и следует порядку групп и игроков на входе; вызывающая
// сторона нумерует их сквозным match_order.
func RoundRobinPairs(groups []Group) []GroupPair {
	pairs := make([]GroupPair, 0)
	for _, g := range groups {
		for i := 0; i < len(g.PlayerIDs); i++ {
			for j := i + 1; j < len(g.PlayerIDs); j++ {
				pairs = append(pairs, GroupPair{
					GroupName: g.Name,
					Player1ID: g.PlayerIDs[i],
					Player2ID: g.PlayerIDs[j],
				})
			}
		}
	}
	return pairs
}
