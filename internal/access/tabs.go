package access

// NavTab is one navigation entry the client should render. Tabs are
// produced fresh on every evaluation and never persisted.
type NavTab struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Path  string `json:"path"`
}

// allTabs is the full fixed tab set in display order.
var allTabs = []NavTab{
	{ID: "dashboard", Label: "Tableau de bord", Icon: "layout-dashboard", Path: PathDashboard},
	{ID: "projects", Label: "Projets", Icon: "folder", Path: PathProjects},
	{ID: "articles", Label: "Articles", Icon: "package", Path: PathArticles},
	{ID: "units", Label: "Unités", Icon: "ruler", Path: PathUnits},
	{ID: "users", Label: "Utilisateurs", Icon: "users", Path: PathUsers},
	{ID: "suppliers", Label: "Fournisseurs", Icon: "truck", Path: PathSuppliers},
	{ID: "inflow", Label: "Entrées", Icon: "arrow-down-circle", Path: PathInflow},
	{ID: "inflow-history", Label: "Historique entrées", Icon: "history", Path: PathInflowHistory},
	{ID: "expenses", Label: "Dépenses", Icon: "shopping-cart", Path: PathExpenses},
	{ID: "expense-history", Label: "Historique dépenses", Icon: "history", Path: PathExpenseHistory},
	{ID: "activity", Label: "Journal d'activité", Icon: "list", Path: PathActivity},
	{ID: "closing", Label: "Clôtures", Icon: "lock", Path: PathClosing},
}

// VisibleTabs returns the ordered tab list for the session: the full set for
// admins, otherwise dashboard first plus every tab unlocked by held flags.
func VisibleTabs(s Session) []NavTab {
	if !s.Authenticated {
		return nil
	}

	if s.IsAdmin() {
		tabs := make([]NavTab, len(allTabs))
		copy(tabs, allTabs)
		return tabs
	}

	allowed := allowedPaths(s)
	tabs := make([]NavTab, 0, len(allTabs))
	for _, tab := range allTabs {
		if tab.Path == PathDashboard || allowed[tab.Path] {
			tabs = append(tabs, tab)
		}
	}
	return tabs
}
