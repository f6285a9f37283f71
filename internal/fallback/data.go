package fallback

import (
	"time"

	"local_portal/internal/domain"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func price(v float64) *float64 {
	return &v
}

var (
	categoryRealEstate  = domain.Category{ID: "1", Name: "Nieruchomości", Slug: "nieruchomosci", Color: "bg-blue-500"}
	categoryCity        = domain.Category{ID: "2", Name: "Miasto", Slug: "miasto", Color: "bg-green-500"}
	categoryJobs        = domain.Category{ID: "3", Name: "Praca", Slug: "praca", Color: "bg-purple-500"}
	categoryCulture     = domain.Category{ID: "4", Name: "Kultura", Slug: "kultura", Color: "bg-pink-500"}
	categoryAutomotive  = domain.Category{ID: "5", Name: "Motoryzacja", Slug: "motoryzacja", Color: "bg-blue-500"}
	categoryElectronics = domain.Category{ID: "6", Name: "Elektronika", Slug: "elektronika", Color: "bg-purple-500"}
	categoryServices    = domain.Category{ID: "7", Name: "Usługi", Slug: "uslugi", Color: "bg-orange-500"}
)

func publishedAt(t time.Time) *time.Time {
	return &t
}

var articles = []domain.Article{
	{
		ID:            "placeholder-article-1",
		Title:         "Nowa inwestycja mieszkaniowa w centrum miasta",
		Slug:          "nowa-inwestycja-mieszkaniowa-centrum-miasta",
		Excerpt:       "Deweloper rozpoczyna budowę nowoczesnego kompleksu mieszkaniowego w ścisłym centrum. Będzie to największa inwestycja tego typu w ostatnich latach.",
		FeaturedImage: "https://images.unsplash.com/photo-1560518883-ce09059eeffa?w=600&h=400&fit=crop",
		Author:        domain.Author{ID: "1", Name: "Anna Kowalska"},
		Category:      categoryRealEstate,
		Tags:          []string{"mieszkania", "inwestycje", "centrum"},
		Status:        domain.ArticleStatusPublished,
		Featured:      true,
		Views:         1250,
		Likes:         45,
		CreatedAt:     date(2024, time.January, 15),
		UpdatedAt:     date(2024, time.January, 15),
		PublishedAt:   publishedAt(date(2024, time.January, 15)),
	},
	{
		ID:            "placeholder-article-2",
		Title:         "Modernizacja głównej ulicy - zamknięcie ruchu",
		Slug:          "modernizacja-glownej-ulicy-zamkniecie-ruchu",
		Excerpt:       "Urząd miasta informuje o planowanej modernizacji głównej arterii komunikacyjnej. Prace potrwają około 3 miesiące.",
		FeaturedImage: "https://images.unsplash.com/photo-1581833971358-2c8b550f87b3?w=600&h=400&fit=crop",
		Author:        domain.Author{ID: "2", Name: "Marek Nowak"},
		Category:      categoryCity,
		Tags:          []string{"infrastruktura", "komunikacja", "modernizacja"},
		Status:        domain.ArticleStatusPublished,
		Views:         890,
		Likes:         23,
		CreatedAt:     date(2024, time.January, 14),
		UpdatedAt:     date(2024, time.January, 14),
		PublishedAt:   publishedAt(date(2024, time.January, 14)),
	},
	{
		ID:            "placeholder-article-3",
		Title:         "Nowe miejsca pracy w lokalnej fabryce",
		Slug:          "nowe-miejsca-pracy-lokalna-fabryka",
		Excerpt:       "Zakład produkcyjny planuje utworzenie 200 nowych stanowisk pracy. Rekrutacja rozpocznie się już w przyszłym tygodniu.",
		FeaturedImage: "https://images.unsplash.com/photo-1578662996442-48f60103fc96?w=600&h=400&fit=crop",
		Author:        domain.Author{ID: "3", Name: "Katarzyna Wiśniewska"},
		Category:      categoryJobs,
		Tags:          []string{"praca", "rekrutacja", "przemysł"},
		Status:        domain.ArticleStatusPublished,
		Featured:      true,
		Views:         2100,
		Likes:         78,
		CreatedAt:     date(2024, time.January, 13),
		UpdatedAt:     date(2024, time.January, 13),
		PublishedAt:   publishedAt(date(2024, time.January, 13)),
	},
	{
		ID:            "placeholder-article-4",
		Title:         "Festiwal kultury lokalnej - program wydarzeń",
		Slug:          "festiwal-kultury-lokalnej-program-wydarzen",
		Excerpt:       "W najbliższy weekend odbędzie się coroczny festiwal kultury lokalnej. Sprawdź bogaty program koncertów i wystaw.",
		FeaturedImage: "https://images.unsplash.com/photo-1501386761578-eac5c94b800a?w=600&h=400&fit=crop",
		Author:        domain.Author{ID: "1", Name: "Anna Kowalska"},
		Category:      categoryCulture,
		Tags:          []string{"festiwal", "kultura", "wydarzenia"},
		Status:        domain.ArticleStatusPublished,
		Views:         675,
		Likes:         34,
		CreatedAt:     date(2024, time.January, 12),
		UpdatedAt:     date(2024, time.January, 12),
		PublishedAt:   publishedAt(date(2024, time.January, 12)),
	},
}

var classifieds = []domain.Classified{
	{
		ID:          "placeholder-classified-1",
		Title:       "Sprzedam samochód Toyota Corolla 2020",
		Description: "Samochód w bardzo dobrym stanie, pierwszy właściciel, serwisowany w ASO. Przebieg 45000 km.",
		Price:       price(75000),
		Currency:    domain.CurrencyPLN,
		Category:    categoryAutomotive,
		Subcategory: "Samochody osobowe",
		Location:    domain.Location{City: "Warszawa", Region: "Mazowieckie"},
		Images:      []string{"https://images.unsplash.com/photo-1549317661-bd32c8ce0db2?w=400&h=300&fit=crop"},
		Contact:     domain.Contact{Name: "Jan Kowalski", Phone: "+48 123 456 789", Email: "jan@example.com"},
		Features:    domain.Features{Condition: domain.ConditionUsed, Brand: "Toyota", Model: "Corolla", Year: 2020},
		Status:      domain.ClassifiedStatusActive,
		Featured:    true,
		Views:       450,
		Favorites:   12,
		CreatedAt:   date(2024, time.January, 15),
		UpdatedAt:   date(2024, time.January, 15),
		ExpiresAt:   date(2024, time.March, 15),
		UserID:      "user1",
	},
	{
		ID:          "placeholder-classified-2",
		Title:       "Mieszkanie 3-pokojowe do wynajęcia",
		Description: "Komfortowe mieszkanie w centrum miasta, w pełni umeblowane. Dostępne od zaraz.",
		Price:       price(3500),
		Currency:    domain.CurrencyPLN,
		Category:    categoryRealEstate,
		Subcategory: "Mieszkania na wynajem",
		Location:    domain.Location{City: "Kraków", Region: "Małopolskie"},
		Images:      []string{"https://images.unsplash.com/photo-1560518883-ce09059eeffa?w=400&h=300&fit=crop"},
		Contact:     domain.Contact{Name: "Anna Nowak", Phone: "+48 987 654 321", Email: "anna@example.com"},
		Features:    domain.Features{Condition: domain.ConditionNew},
		Status:      domain.ClassifiedStatusActive,
		Featured:    true,
		Premium:     true,
		Views:       1200,
		Favorites:   45,
		CreatedAt:   date(2024, time.January, 14),
		UpdatedAt:   date(2024, time.January, 14),
		ExpiresAt:   date(2024, time.March, 14),
		UserID:      "user2",
	},
	{
		ID:          "placeholder-classified-3",
		Title:       "Laptop Dell XPS 13 - stan idealny",
		Description: "Sprzedam laptopa Dell XPS 13, stan idealny, używany tylko do pracy biurowej.",
		Price:       price(4500),
		Currency:    domain.CurrencyPLN,
		Category:    categoryElectronics,
		Subcategory: "Laptopy",
		Location:    domain.Location{City: "Gdańsk", Region: "Pomorskie"},
		Images:      []string{"https://images.unsplash.com/photo-1496181133206-80ce9b88a853?w=400&h=300&fit=crop"},
		Contact:     domain.Contact{Name: "Marek Wiśniewski", Phone: "+48 555 123 456"},
		Features:    domain.Features{Condition: domain.ConditionUsed, Brand: "Dell", Model: "XPS 13"},
		Status:      domain.ClassifiedStatusActive,
		Views:       230,
		Favorites:   8,
		CreatedAt:   date(2024, time.January, 13),
		UpdatedAt:   date(2024, time.January, 13),
		ExpiresAt:   date(2024, time.March, 13),
		UserID:      "user3",
	},
	{
		ID:          "placeholder-classified-4",
		Title:       "Usługi remontowe - malowanie, gładzie",
		Description: "Profesjonalne usługi malarskie i wykończeniowe. Wieloletnie doświadczenie, konkurencyjne ceny.",
		Price:       price(50),
		Currency:    domain.CurrencyPLN,
		Category:    categoryServices,
		Subcategory: "Remonty",
		Location:    domain.Location{City: "Wrocław", Region: "Dolnośląskie"},
		Images:      []string{"https://images.unsplash.com/photo-1562259949-e8e7689d7828?w=400&h=300&fit=crop"},
		Contact:     domain.Contact{Name: "Firma RemBud", Phone: "+48 777 888 999", Email: "kontakt@rembud.pl"},
		Features:    domain.Features{Condition: domain.ConditionNew},
		Status:      domain.ClassifiedStatusActive,
		Featured:    true,
		Views:       125,
		Favorites:   3,
		CreatedAt:   date(2024, time.January, 12),
		UpdatedAt:   date(2024, time.January, 12),
		ExpiresAt:   date(2024, time.April, 12),
		UserID:      "user4",
	},
}

var heroAds = []domain.Advertisement{
	{
		ID:          "placeholder-hero-1",
		Title:       "Premium Restaurant Chain",
		Description: "Najlepsza pizza w mieście! Zamów online i odbierz 20% zniżki na pierwsze zamówienie",
		ImageURL:    "https://images.unsplash.com/photo-1565299624946-b28f40a0ca4b?w=1200&h=400&fit=crop",
		LinkURL:     "https://example-restaurant.com",
		Type:        domain.AdTypeBanner,
		Priority:    4,
	},
	{
		ID:          "placeholder-hero-2",
		Title:       "Auto Service Premium",
		Description: "Profesjonalne naprawy samochodów. Bezpłatna diagnoza i gwarancja na wszystkie usługi",
		ImageURL:    "https://images.unsplash.com/photo-1492144534655-ae79c964c9d7?w=1200&h=400&fit=crop",
		LinkURL:     "https://example-autoservice.com",
		Type:        domain.AdTypeBanner,
		Priority:    3,
	},
	{
		ID:          "placeholder-hero-3",
		Title:       "Fitness Studio Elite",
		Description: "Nowoczesna siłownia z trenerami personalnymi. Pierwszy miesiąc za darmo!",
		ImageURL:    "https://images.unsplash.com/photo-1534438327276-14e5300c3a48?w=1200&h=400&fit=crop",
		LinkURL:     "https://example-fitness.com",
		Type:        domain.AdTypeBanner,
		Priority:    2,
	},
	{
		ID:          "placeholder-hero-4",
		Title:       "Real Estate Pro",
		Description: "Znajdź swoje wymarzone mieszkanie. Ponad 1000+ ofert nieruchomości w najlepszych lokalizacjach",
		ImageURL:    "https://images.unsplash.com/photo-1560518883-ce09059eeffa?w=1200&h=400&fit=crop",
		LinkURL:     "https://example-realestate.com",
		Type:        domain.AdTypeBanner,
		Priority:    1,
	},
}

var sidebarAds = []domain.Advertisement{
	{
		ID:          "placeholder-sidebar-1",
		Title:       "Najlepszy Bank w Mieście",
		Description: "Załóż konto online i odbierz 200 zł premii. Bez ukrytych opłat!",
		ImageURL:    "https://images.unsplash.com/photo-1559526324-4b87b5e36e44?w=300&h=200&fit=crop",
		LinkURL:     "https://example-bank.com",
		Type:        domain.AdTypeBanner,
		Priority:    4,
	},
	{
		ID:          "placeholder-sidebar-2",
		Title:       "Ubezpieczenia na Auto",
		Description: "Porównaj oferty 15 towarzystw ubezpieczeniowych. Znajdź najtańsze OC i AC.",
		ImageURL:    "https://images.unsplash.com/photo-1492144534655-ae79c964c9d7?w=300&h=150&fit=crop",
		LinkURL:     "https://example-insurance.com",
		Type:        domain.AdTypeBanner,
		Priority:    3,
	},
	{
		ID:          "placeholder-sidebar-3",
		Title:       "Promocja: Meble do Domu",
		Description: "Nowa kolekcja mebli w super cenach. Dostawa gratis!",
		LinkURL:     "https://example-furniture.com",
		Type:        domain.AdTypeText,
		Priority:    2,
	},
	{
		ID:          "placeholder-sidebar-4",
		Title:       "Kursy Językowe Online",
		Description: "Naucz się języka w 30 dni. Pierwsza lekcja za darmo.",
		ImageURL:    "https://images.unsplash.com/photo-1434030216411-0b793f4b4173?w=300&h=150&fit=crop",
		LinkURL:     "https://example-language.com",
		Type:        domain.AdTypeBanner,
		Priority:    1,
	},
}
