package demoapi

import "github.com/five82/stoq/internal/catalog"

type seedRow struct {
	name        string
	ean         string
	price       float64
	description string
	active      bool
	place       catalog.SellingPlace
}

var seedRows = []seedRow{
	{"Wireless Bluetooth Headphones", "1234567890123", 79.99, "High-quality wireless headphones with noise cancellation", true, catalog.SellingPlaceStore},
	{"Laptop Stand Adjustable", "2345678901234", 45.50, "Ergonomic laptop stand with adjustable height", true, catalog.SellingPlaceStore},
	{"USB-C Hub Multiport", "3456789012345", 29.99, "7-in-1 USB-C hub with HDMI, USB ports, and SD card reader", true, catalog.SellingPlaceEvent},
	{"Mechanical Keyboard RGB", "4567890123456", 129.99, "Gaming mechanical keyboard with RGB backlighting", true, catalog.SellingPlaceStore},
	{"Wireless Mouse Ergonomic", "5678901234567", 39.99, "Ergonomic wireless mouse with adjustable DPI", true, catalog.SellingPlaceEvent},
	{"Webcam HD 1080p", "6789012345678", 59.99, "HD webcam with built-in microphone for video calls", true, catalog.SellingPlaceStore},
	{"Phone Case Protective", "7890123456789", 19.99, "Protective phone case with shock absorption", true, catalog.SellingPlaceEvent},
	{"Portable SSD 1TB", "8901234567890", 149.99, "Fast portable SSD with 1TB storage capacity", true, catalog.SellingPlaceStore},
	{"Desk Lamp LED", "9012345678901", 34.99, "LED desk lamp with adjustable brightness and color temperature", true, catalog.SellingPlaceStore},
	{"Monitor 27 inch 4K", "0123456789012", 399.99, "27-inch 4K UHD monitor with HDR support", false, catalog.SellingPlaceStore},
	{"Graphics Tablet Drawing", "1112223334445", 89.99, "Professional graphics tablet for digital art", true, catalog.SellingPlaceEvent},
	{"Smartphone Stand Holder", "2223334445556", 15.99, "Adjustable smartphone stand for desk", true, catalog.SellingPlaceEvent},
	{"External Battery Pack", "3334445556667", 49.99, "20000mAh portable battery pack with fast charging", true, catalog.SellingPlaceStore},
	{"Smart Watch Fitness", "4445556667778", 199.99, "Smart watch with fitness tracking and heart rate monitor", true, catalog.SellingPlaceStore},
	{"Cable Organizer Set", "5556667778889", 12.99, "Set of cable organizers for desk management", true, catalog.SellingPlaceEvent},
	{"Bluetooth Speaker Portable", "6667778889990", 69.99, "Waterproof portable speaker with 12-hour battery life", true, catalog.SellingPlaceStore},
	{"Microphone USB Streaming", "7778889990001", 99.99, "Professional USB microphone for streaming and podcasting", true, catalog.SellingPlaceEvent},
	{"Gaming Chair Ergonomic", "8889990001112", 249.99, "Ergonomic gaming chair with lumbar support and adjustable armrests", true, catalog.SellingPlaceStore},
	{"Screen Protector Tempered Glass", "9990001112223", 9.99, "Tempered glass screen protector with oleophobic coating", true, catalog.SellingPlaceEvent},
	{"Cooling Pad Laptop", "0001112223334", 27.99, "Laptop cooling pad with dual fans and adjustable height", true, catalog.SellingPlaceStore},
	{"Wireless Charger Fast", "1113334445557", 24.99, "15W fast wireless charger compatible with Qi devices", true, catalog.SellingPlaceEvent},
	{"HDMI Cable 4K 6ft", "2224445556668", 14.99, "High-speed HDMI cable supporting 4K@60Hz and HDR", true, catalog.SellingPlaceStore},
	{"Memory Card 128GB", "3335556667779", 19.99, "MicroSD card 128GB with adapter for cameras and phones", true, catalog.SellingPlaceEvent},
	{"Webcam Cover Slider", "4446667778880", 6.99, "Privacy webcam cover slider pack of 3", true, catalog.SellingPlaceStore},
	{"Document Scanner Portable", "5557778889991", 179.99, "Portable document scanner with automatic document feeder", false, catalog.SellingPlaceStore},
	{"Ring Light LED", "6668889990002", 39.99, "10-inch LED ring light with tripod for photography and video", true, catalog.SellingPlaceEvent},
	{"Mouse Pad Extended", "7779990001113", 18.99, "Extended mouse pad XXL size with stitched edges", true, catalog.SellingPlaceStore},
	{"Surge Protector 8 Outlet", "8880001112224", 32.99, "8-outlet surge protector with 4 USB ports and 6ft cord", true, catalog.SellingPlaceStore},
	{"Presentation Pointer", "9991112223335", 22.99, "Wireless presenter with laser pointer and remote control", true, catalog.SellingPlaceEvent},
	{"Tablet Stylus Pen", "0002223334446", 29.99, "Active stylus pen with palm rejection for tablets", true, catalog.SellingPlaceEvent},
}

// Seed returns the sample catalog.
func Seed() []catalog.CreateInput {
	out := make([]catalog.CreateInput, len(seedRows))
	for i, r := range seedRows {
		out[i] = catalog.CreateInput{
			Name:         r.name,
			EAN:          r.ean,
			Price:        r.price,
			Description:  r.description,
			Active:       r.active,
			SellingPlace: r.place,
		}
	}
	return out
}
