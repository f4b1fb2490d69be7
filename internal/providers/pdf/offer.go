package pdf

import (
	"bytes"
	"context"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var brandColor = &props.Color{Red: 30, Green: 65, Blue: 130}

const (
	brandName  = "ALLDENIMS"
	brandSite  = "www.alldenims.com"
	brandEmail = "info@alldenims.com"
	brandPhone = "+90 212 000 00 00"

	paymentTerms = "60% TT IN ADVANCE + BALANCE 40% TT BEFORE SHIPMENT"
)

var offerRemarks = []string{
	"* Average proto-sampling leadtime varies from 2 to 3 weeks depending on the material availability and/or adequacy of data required to start sampling.",
	"* Proto, SMS and PPS samples are charged X2 of the product value. TOP sample is charged X1 of the product value.",
	"* Samples are shipped out and received in through customer's courier account. In cases of parcel shipments on Alldenims' courier account due to temporary or permanent setbacks on customer's courier arrangement, such invoices are charged to customer separately.",
	"* Average production leadtime varies from 4 to 6 weeks depending on style and order parameters starting from having all materials in house.",
	"* Leadtimes mentioned exclude national holidays in Turkey.",
	"* In case the customer ships any of the materials involved in production of the mentioned styles from outside of Turkey may be subject to taxation at customs. Such fees and expenses are charged to customer separately.",
	"* Similarly, such parcels may be held up at customs for probation or analysis purposes even if they are deemed to be classified as \"samples\". Any demurrage charges that may apply in such cases will be reflected to customer.",
}

type marotoProvider struct{}

func New() Provider {
	return &marotoProvider{}
}

func (p *marotoProvider) GenerateOffer(ctx context.Context, data OfferData) (io.Reader, error) {
	cfg := config.NewBuilder().Build()
	m := maroto.New(cfg)

	// Brand header
	m.AddRow(14,
		text.NewCol(12, brandName, props.Text{
			Size:  24,
			Style: fontstyle.Bold,
			Color: brandColor,
		}),
	)
	m.AddRow(10,
		text.NewCol(12, "PRICE OFFER", props.Text{
			Size:  16,
			Style: fontstyle.Bold,
			Color: brandColor,
		}),
	)

	// Customer block left, date block right
	m.AddRow(20,
		col.New(6).Add(
			text.New("CUSTOMER: "+data.CustomerName, props.Text{Size: 10}),
			text.New("COUNTRY: "+data.Country, props.Text{Size: 10, Top: 5}),
			text.New("ATTENTION: "+data.Attention, props.Text{Size: 10, Top: 10}),
		),
		col.New(6).Add(
			text.New("DATE: "+data.Date, props.Text{Size: 10}),
			text.New("VALIDITY: "+data.Validity, props.Text{Size: 10, Top: 5}),
			text.New("CURRENCY: "+data.Currency, props.Text{Size: 10, Top: 10}),
		),
	)

	// Price table
	m.AddRow(8,
		text.NewCol(3, "QUANTITY", props.Text{Style: fontstyle.Bold, Size: 8, Color: brandColor}),
		text.NewCol(3, "UNIT PRICE", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: brandColor}),
		text.NewCol(3, "DISCOUNT", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: brandColor}),
		text.NewCol(3, "FINAL PRICE", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: brandColor}),
	)
	m.AddRow(2, line.NewCol(12, props.Line{Color: brandColor}))
	for _, row := range data.Rows {
		m.AddRow(7,
			text.NewCol(3, row.Bracket, props.Text{Size: 8}),
			text.NewCol(3, row.UnitPrice, props.Text{Size: 8, Align: align.Right}),
			text.NewCol(3, row.Discount, props.Text{Size: 8, Align: align.Right}),
			text.NewCol(3, row.FinalPrice, props.Text{Size: 8, Align: align.Right}),
		)
	}

	// Payment terms
	m.AddRow(8,
		text.NewCol(12, "PAYMENT TERMS", props.Text{Style: fontstyle.Bold, Size: 10, Color: brandColor, Top: 4}),
	)
	m.AddRow(6,
		text.NewCol(12, paymentTerms, props.Text{Size: 8}),
	)

	// Remarks
	m.AddRow(8,
		text.NewCol(12, "REMARKS", props.Text{Style: fontstyle.Bold, Size: 10, Color: brandColor, Top: 4}),
	)
	for _, remark := range offerRemarks {
		m.AddRow(8,
			text.NewCol(12, remark, props.Text{Size: 8}),
		)
	}

	// Footer
	m.AddRow(2, line.NewCol(12, props.Line{Color: brandColor}))
	m.AddRow(6,
		text.NewCol(4, brandSite, props.Text{Size: 8, Color: brandColor}),
		text.NewCol(4, brandEmail, props.Text{Size: 8, Align: align.Center, Color: brandColor}),
		text.NewCol(4, brandPhone, props.Text{Size: 8, Align: align.Right, Color: brandColor}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(doc.GetBytes()), nil
}
